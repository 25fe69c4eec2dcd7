package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// In-process queue topic for completed questionnaires
	CompletionTopic = "questionnaire.completed"

	// Chat commands
	CommandStart         = "/start"
	CommandQuestionnaire = "/questionnaire"
	CommandCancel        = "/cancel"
	CommandHelp          = "/help"

	// GROUNDED ANSWERING - context is injected between the preamble and the question
	RagPromptPreambleV1 = `You are the assistant of a product development consultancy. Answer ONLY questions about the company, its services and product development topics, using the context below. If the context does not contain the answer, say so briefly. Do not invent facts and do not answer off-topic questions.`

	// User-facing texts
	WelcomeMessage = `Hi! I can answer questions about our company and services.

Send /questionnaire to start a product development request, or just ask me anything.`

	HelpMessage = `Commands:
/questionnaire - start a product development request
/cancel - abandon the current request

Outside a questionnaire, just type your question.`

	QuestionnaireEmptyMessage    = "No questionnaire is configured right now. Please try again later."
	QuestionnaireDoneMessage     = "That was the last question - thank you! Your request has been recorded and our team will be in touch."
	QuestionnaireCancelMessage   = "Questionnaire cancelled. Your answers were discarded."
	QuestionnaireNoActiveMessage = "There is no questionnaire in progress. Send /questionnaire to start one."
	QuestionnairePersistFailed   = "Sorry, something went wrong saving your answers. Please resend your last answer to retry."

	RetrievalFallbackMessage = "Sorry, I could not come up with an answer right now. Please try again in a moment."
)
