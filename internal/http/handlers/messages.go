package handlers

// Error codes returned to the embedding client.
const (
	CodeSignatureInvalid = "SIGNATURE_INVALID"
	CodeMissingParams    = "MISSING_PARAMS"
	CodePromptTooShort   = "PROMPT_TOO_SHORT"
	CodePromptTooLong    = "PROMPT_TOO_LONG"
	CodeGenerationError  = "GENERATION_ERROR"
)

// User-facing message catalog. The embedding platform's UI is Chinese, so
// zh keeps the platform's original strings; en is served everywhere else.
var errorMessages = map[string]map[string]string{
	"en": {
		CodeSignatureInvalid: "signature verification failed",
		CodeMissingParams:    "missing required parameters",
		CodePromptTooShort:   "prompt must be at least 5 characters",
		CodePromptTooLong:    "prompt must not exceed 500 characters",
		CodeGenerationError:  "image generation failed",
	},
	"zh": {
		CodeSignatureInvalid: "签名验证失败",
		CodeMissingParams:    "缺少必需参数",
		CodePromptTooShort:   "提示词至少需要 5 个字符",
		CodePromptTooLong:    "提示词不能超过 500 个字符",
		CodeGenerationError:  "生成失败",
	},
}

func errorMessage(locale, code string) string {
	if msgs, ok := errorMessages[locale]; ok {
		if msg, ok := msgs[code]; ok {
			return msg
		}
	}
	if msg, ok := errorMessages["en"][code]; ok {
		return msg
	}
	return code
}
