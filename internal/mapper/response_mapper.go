package mapper

import (
	"encoding/json"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/model"
)

type ResponseMapper struct{}

func NewResponseMapper() *ResponseMapper {
	return &ResponseMapper{}
}

func (m *ResponseMapper) ToEntity(r *model.QuestionnaireResponse) (*entity.QuestionnaireResponse, error) {
	if r == nil {
		return nil, nil
	}
	var answers []entity.Answer
	if len(r.Answers) > 0 {
		if err := json.Unmarshal(r.Answers, &answers); err != nil {
			return nil, err
		}
	}
	return &entity.QuestionnaireResponse{
		Id:          r.Id,
		ChatId:      r.ChatId,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Answers:     answers,
	}, nil
}

func (m *ResponseMapper) ToModel(r *entity.QuestionnaireResponse) (*model.QuestionnaireResponse, error) {
	if r == nil {
		return nil, nil
	}
	raw, err := json.Marshal(r.Answers)
	if err != nil {
		return nil, err
	}
	return &model.QuestionnaireResponse{
		Id:          r.Id,
		ChatId:      r.ChatId,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Answers:     raw,
	}, nil
}
