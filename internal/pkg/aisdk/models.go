package aisdk

// Category identifies a generation capability.
type Category string

const (
	CategoryTextToImage      Category = "text-to-image"
	CategoryImageToImage     Category = "image-to-image"
	CategoryTextToVideo      Category = "text-to-video"
	CategoryImageToVideo     Category = "image-to-video"
	CategoryTextToText       Category = "text-to-text"
	CategoryRemoveBackground Category = "remove-background"
)

// Model identifiers accepted by the category dispatchers. The set is fixed
// at compile time; unknown identifiers fail at the lookup step.
const (
	ModelSeedream4        = "bytedance/seedream-4"
	ModelImagen4          = "google/imagen-4"
	ModelFluxPro          = "black-forest-labs/flux-1.1-pro"
	ModelQwenImageEdit    = "qwen/qwen-image-edit"
	ModelFluxKontextPro   = "black-forest-labs/flux-kontext-pro"
	ModelVeo3             = "google/veo-3"
	ModelWanT2V           = "wan-video/wan-2.2-t2v-fast"
	ModelKlingV21         = "kwaivgi/kling-v2.1"
	ModelWanI2V           = "wan-video/wan-2.2-i2v-fast"
	ModelLlama3           = "meta/meta-llama-3-70b-instruct"
	ModelDeepseekV3       = "deepseek-ai/deepseek-v3"
	ModelClaudeSonnet     = "anthropic/claude-4-sonnet"
	ModelBackgroundRemove = "851-labs/background-remover"
)

// Int returns a pointer to v, for optional numeric option fields.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v, for optional numeric option fields.
func Float64(v float64) *float64 { return &v }
