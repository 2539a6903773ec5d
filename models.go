package kimicheck

// DefaultBaseURL is the base URL of the Moonshot (Kimi) OpenAI-compatible API.
//
// https://platform.moonshot.cn/docs/api/chat
const DefaultBaseURL = "https://api.moonshot.cn/v1"

// Models that can be used with the Moonshot API. The list is not exhaustive,
// use the model listing endpoint to see everything a key has access to.
//
// $ curl -s https://api.moonshot.cn/v1/models -H "Authorization: Bearer $MOONSHOT_API_KEY" | jq -r '.data[].id'
const (
	// ModelKimiLatest always points at the newest Kimi model, with the
	// context window picked automatically based on the request.
	ModelKimiLatest = "kimi-latest"

	ModelMoonshotV18K   = "moonshot-v1-8k"
	ModelMoonshotV132K  = "moonshot-v1-32k"
	ModelMoonshotV1128K = "moonshot-v1-128k"
	ModelMoonshotV1Auto = "moonshot-v1-auto"
)

// DefaultModel is the model used by the chat checks.
const DefaultModel = ModelKimiLatest
