package dto

// Telegram update envelope, reduced to the fields this service consumes.

type TelegramChat struct {
	Id int64 `json:"id"`
}

type TelegramMessage struct {
	MessageId int64        `json:"message_id"`
	Chat      TelegramChat `json:"chat"`
	Text      string       `json:"text"`
}

type TelegramUpdate struct {
	UpdateId int64            `json:"update_id" validate:"required"`
	Message  *TelegramMessage `json:"message,omitempty"`
}
