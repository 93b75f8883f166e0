package config

const (
	// DefaultAssistantMaxTurns bounds model round-trips per chat request.
	// Each turn is one model call plus the tool calls it requests.
	DefaultAssistantMaxTurns = 5

	// MaxPlanTitleLength fits the VARCHAR(200) title column.
	MaxPlanTitleLength = 200

	// MaxUsernameLength fits the VARCHAR(150) username column.
	MaxUsernameLength = 150

	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8

	// MaxChatMessageLength caps a single user utterance sent to the assistant.
	MaxChatMessageLength = 4000

	// MaxBulkPlans caps the number of plans in one bulk create.
	MaxBulkPlans = 100

	// DefaultRecentPlans is the page size for the recent plans view.
	DefaultRecentPlans = 5

	// MaxLogFiles is the number of rotated server log files kept on disk.
	MaxLogFiles = 10
)
