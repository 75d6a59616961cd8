package controllers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/aisdk"
	"github.com/prismify-app/prismify/internal/pkg/cache"
	"github.com/prismify-app/prismify/internal/pkg/entitlements"
	"github.com/prismify-app/prismify/internal/pkg/metrics/counter"
	"github.com/prismify-app/prismify/internal/pkg/storage"
	"github.com/prismify-app/prismify/internal/pkg/usercontext"
)

// generationTimeout bounds a single model invocation including asset
// materialization. Video models routinely run for minutes.
const generationTimeout = 10 * time.Minute

// GenerateController owns the inference client and the asset pipeline.
type GenerateController struct {
	client   aisdk.Client
	uploader storage.Uploader
	fetch    aisdk.Fetcher
}

var generateController *GenerateController

// InitializeGenerateController wires the generation endpoints. The clients
// are constructed in main and injected here.
func InitializeGenerateController(client aisdk.Client, uploader storage.Uploader, fetch aisdk.Fetcher) {
	generateController = &GenerateController{
		client:   client,
		uploader: uploader,
		fetch:    fetch,
	}
}

type textToImageRequest struct {
	Model          string   `json:"model" validate:"required"`
	Prompt         string   `json:"prompt" validate:"required"`
	Width          *int     `json:"width"`
	Height         *int     `json:"height"`
	MaxImages      *int     `json:"max_images"`
	Size           string   `json:"size"`
	AspectRatio    string   `json:"aspect_ratio"`
	OutputFormat   string   `json:"output_format"`
	OutputQuality  *int     `json:"output_quality"`
	NegativePrompt string   `json:"negative_prompt"`
	Sequential     string   `json:"sequential_image_generation"`
}

// HandleTextToImage runs a text-to-image generation.
func HandleTextToImage(c *fiber.Ctx) error {
	var req textToImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	return generateController.runSync(c, aisdk.CategoryTextToImage, req.Model, req.Prompt, func(ctx context.Context) (interface{}, error) {
		return aisdk.TextToImage(ctx, generateController.client, req.Model, aisdk.TextToImageOptions{
			Prompt:         req.Prompt,
			Width:          req.Width,
			Height:         req.Height,
			MaxImages:      req.MaxImages,
			Size:           req.Size,
			AspectRatio:    req.AspectRatio,
			OutputFormat:   req.OutputFormat,
			OutputQuality:  req.OutputQuality,
			NegativePrompt: req.NegativePrompt,
			Sequential:     req.Sequential,
		})
	})
}

type imageToImageRequest struct {
	Model         string   `json:"model" validate:"required"`
	Prompt        string   `json:"prompt" validate:"required"`
	Image         string   `json:"image"`
	ImageInput    []string `json:"image_input"`
	Width         *int     `json:"width"`
	Height        *int     `json:"height"`
	MaxImages     *int     `json:"max_images"`
	OutputQuality *int     `json:"output_quality"`
	OutputFormat  string   `json:"output_format"`
	AspectRatio   string   `json:"aspect_ratio"`
	GoFast        bool     `json:"go_fast"`
}

// HandleImageToImage runs an image editing generation.
func HandleImageToImage(c *fiber.Ctx) error {
	var req imageToImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	return generateController.runSync(c, aisdk.CategoryImageToImage, req.Model, req.Prompt, func(ctx context.Context) (interface{}, error) {
		return aisdk.ImageToImage(ctx, generateController.client, req.Model, aisdk.ImageToImageOptions{
			Prompt:        req.Prompt,
			Image:         req.Image,
			ImageInput:    req.ImageInput,
			Width:         req.Width,
			Height:        req.Height,
			MaxImages:     req.MaxImages,
			OutputQuality: req.OutputQuality,
			OutputFormat:  req.OutputFormat,
			AspectRatio:   req.AspectRatio,
			GoFast:        req.GoFast,
		})
	})
}

type textToVideoRequest struct {
	Model          string `json:"model" validate:"required"`
	Prompt         string `json:"prompt" validate:"required"`
	NegativePrompt string `json:"negative_prompt"`
	Resolution     string `json:"resolution"`
	Width          *int   `json:"width"`
	Height         *int   `json:"height"`
	Seed           *int   `json:"seed"`
}

// HandleTextToVideo runs a text-to-video generation.
func HandleTextToVideo(c *fiber.Ctx) error {
	var req textToVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	return generateController.runSync(c, aisdk.CategoryTextToVideo, req.Model, req.Prompt, func(ctx context.Context) (interface{}, error) {
		return aisdk.TextToVideo(ctx, generateController.client, req.Model, aisdk.TextToVideoOptions{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			Resolution:     req.Resolution,
			Width:          req.Width,
			Height:         req.Height,
			Seed:           req.Seed,
		})
	})
}

type imageToVideoRequest struct {
	Model          string `json:"model" validate:"required"`
	Image          string `json:"image" validate:"required"`
	Prompt         string `json:"prompt"`
	Duration       *int   `json:"duration"`
	Mode           string `json:"mode"`
	NegativePrompt string `json:"negative_prompt"`
	Resolution     string `json:"resolution"`
}

// HandleImageToVideo animates a start frame into a clip.
func HandleImageToVideo(c *fiber.Ctx) error {
	var req imageToVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	return generateController.runSync(c, aisdk.CategoryImageToVideo, req.Model, req.Prompt, func(ctx context.Context) (interface{}, error) {
		return aisdk.ImageToVideo(ctx, generateController.client, req.Model, aisdk.ImageToVideoOptions{
			Prompt:         req.Prompt,
			Image:          req.Image,
			Duration:       req.Duration,
			Mode:           req.Mode,
			NegativePrompt: req.NegativePrompt,
			Resolution:     req.Resolution,
		})
	})
}

type removeBackgroundRequest struct {
	Model     string   `json:"model" validate:"required"`
	Image     string   `json:"image" validate:"required"`
	Format    string   `json:"format"`
	Threshold *float64 `json:"threshold"`
}

// HandleRemoveBackground strips the background from an image.
func HandleRemoveBackground(c *fiber.Ctx) error {
	var req removeBackgroundRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	return generateController.runSync(c, aisdk.CategoryRemoveBackground, req.Model, "", func(ctx context.Context) (interface{}, error) {
		return aisdk.RemoveBackground(ctx, generateController.client, req.Model, aisdk.RemoveBackgroundOptions{
			Image:     req.Image,
			Format:    req.Format,
			Threshold: req.Threshold,
		})
	})
}

// runSync executes a buffered generation: invoke the model, materialize the
// result into object storage, record the generation and charge the account.
// Credits are only debited for completed generations.
func (gc *GenerateController) runSync(c *fiber.Ctx, category aisdk.Category, model, prompt string, invoke func(ctx context.Context) (interface{}, error)) error {
	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	cost := entitlements.CreditCost(category)
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load account")
	}
	if !entitlements.CanAfford(user.Credits, category) {
		return jsonError(c, fiber.StatusPaymentRequired, "insufficient_credits",
			fmt.Sprintf("This generation costs %d credits, balance is %d", cost, user.Credits))
	}

	gen := &models.Generation{
		UUID:     uuid.New().String(),
		UserID:   userCtx.UserID,
		Category: string(category),
		Model:    model,
		Prompt:   prompt,
		Status:   models.GenerationStatusProcessing,
		Credits:  cost,
	}
	if err := repos.Generation.Create(gen); err != nil {
		return internalError(c, "Failed to record generation")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	output, err := invoke(ctx)
	if err != nil {
		gc.failGeneration(gen, err)
		if isValidationError(err) {
			return badRequest(c, err.Error())
		}
		return jsonError(c, fiber.StatusBadGateway, "generation_failed", err.Error())
	}

	asset, err := aisdk.Materialize(ctx, output, gc.fetch)
	if err != nil {
		gc.failGeneration(gen, err)
		return jsonError(c, fiber.StatusBadGateway, "generation_failed", err.Error())
	}

	resultURL, err := gc.uploader.Upload(ctx, asset.Bytes, asset.ContentType)
	if err != nil {
		gc.failGeneration(gen, err)
		return internalError(c, "Failed to store generated asset")
	}

	gen.ResultURL = resultURL
	gen.ContentType = asset.ContentType
	gen.Status = models.GenerationStatusComplete
	if err := repos.Generation.Update(gen); err != nil {
		log.Errorf("[Generate] Failed to finalize generation %s: %v", gen.UUID, err)
	}

	if err := repos.User.DebitCredits(userCtx.UserID, cost); err != nil {
		log.Errorf("[Generate] Failed to debit %d credits from user %d for %s: %v", cost, userCtx.UserID, gen.UUID, err)
	}
	if err := counter.AddGeneration(model, cost); err != nil {
		log.Errorf("[Generate] Failed to count usage for model %s: %v", model, err)
	}

	return c.JSON(fiber.Map{
		"uuid":         gen.UUID,
		"status":       gen.Status,
		"result_url":   gen.ResultURL,
		"content_type": gen.ContentType,
		"credits":      cost,
	})
}

func (gc *GenerateController) failGeneration(gen *models.Generation, cause error) {
	gen.Status = models.GenerationStatusFailed
	gen.ErrorMsg = cause.Error()
	if err := repository.GetGlobalRepositories().Generation.Update(gen); err != nil {
		log.Errorf("[Generate] Failed to mark generation %s failed: %v", gen.UUID, err)
	}
}

// isValidationError separates adapter input rejections from upstream
// failures so the client gets a 400 rather than a 502.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"must be", "is required", "not supported", "must contain"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

type chatRequest struct {
	Model        string   `json:"model" validate:"required"`
	Prompt       string   `json:"prompt" validate:"required"`
	SystemPrompt string   `json:"system_prompt"`
	MaxTokens    *int     `json:"max_tokens"`
	Temperature  *float64 `json:"temperature"`
	TopP         *float64 `json:"top_p"`
}

// HandleChat streams a language model completion as server-sent events.
// Output tokens are forwarded as data frames and the stream is terminated
// with a [DONE] frame.
func HandleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	userCtx := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	cost := entitlements.CreditCost(aisdk.CategoryTextToText)
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load account")
	}
	if !entitlements.CanAfford(user.Credits, aisdk.CategoryTextToText) {
		return jsonError(c, fiber.StatusPaymentRequired, "insufficient_credits",
			fmt.Sprintf("Chat costs %d credits, balance is %d", cost, user.Credits))
	}

	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	outCh, errCh, err := aisdk.TextToText(ctx, generateController.client, req.Model, aisdk.TextToTextOptions{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		MaxTokens:    req.MaxTokens,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
	})
	if err != nil {
		cancel()
		return badRequest(c, err.Error())
	}

	gen := &models.Generation{
		UUID:     uuid.New().String(),
		UserID:   userCtx.UserID,
		Category: string(aisdk.CategoryTextToText),
		Model:    req.Model,
		Prompt:   req.Prompt,
		Status:   models.GenerationStatusProcessing,
		Credits:  cost,
	}
	if err := repos.Generation.Create(gen); err != nil {
		cancel()
		return internalError(c, "Failed to record generation")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	userID := userCtx.UserID
	model := req.Model
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		var streamErr error
		for chunk := range outCh {
			if _, werr := fmt.Fprintf(w, "data: %s\n\n", strings.ReplaceAll(chunk, "\n", "\ndata: ")); werr != nil {
				streamErr = werr
				break
			}
			if werr := w.Flush(); werr != nil {
				streamErr = werr
				break
			}
		}
		if streamErr == nil {
			if cerr, ok := <-errCh; ok && cerr != nil {
				streamErr = cerr
			}
		}

		if streamErr != nil {
			fmt.Fprintf(w, "data: {\"error\": %q}\n\n", streamErr.Error())
			w.Flush()
			gen.Status = models.GenerationStatusFailed
			gen.ErrorMsg = streamErr.Error()
		} else {
			fmt.Fprint(w, "data: [DONE]\n\n")
			w.Flush()
			gen.Status = models.GenerationStatusComplete
			gen.ContentType = "text/plain"
		}

		if err := repos.Generation.Update(gen); err != nil {
			log.Errorf("[Chat] Failed to finalize generation %s: %v", gen.UUID, err)
		}
		if streamErr == nil {
			if err := repos.User.DebitCredits(userID, cost); err != nil {
				log.Errorf("[Chat] Failed to debit %d credits from user %d: %v", cost, userID, err)
			}
			if err := counter.AddGeneration(model, cost); err != nil {
				log.Errorf("[Chat] Failed to count usage for model %s: %v", model, err)
			}
		}
	}))

	return nil
}

const generationStatusCacheTTL = 10 * time.Minute

type generationStatusPayload struct {
	UserID      uint   `json:"user_id"`
	UUID        string `json:"uuid"`
	Category    string `json:"category"`
	Model       string `json:"model"`
	Status      string `json:"status"`
	ResultURL   string `json:"result_url"`
	ContentType string `json:"content_type"`
	Credits     int64  `json:"credits"`
	ErrorMsg    string `json:"error"`
	CreatedAt   string `json:"created_at"`
}

// HandleGenerationStatus returns the state of a single generation. Only the
// owner or an admin can read it. Terminal states are cached in redis so
// polling clients do not hit the database on every request.
func HandleGenerationStatus(c *fiber.Ctx) error {
	genUUID := c.Params("uuid")
	if genUUID == "" {
		return badRequest(c, "Missing generation uuid")
	}

	userCtx := usercontext.GetUserContext(c)
	cacheKey := "generation:status:" + genUUID

	if raw, err := cache.Get(cacheKey); err == nil {
		var payload generationStatusPayload
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			if payload.UserID != userCtx.UserID && !userCtx.IsAdmin {
				return notFound(c, "Generation not found")
			}
			return renderGenerationStatus(c, payload)
		}
	}

	gen, err := repository.GetGlobalRepositories().Generation.GetByUUID(genUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Generation not found")
		}
		return internalError(c, "Failed to load generation")
	}

	payload := generationStatusPayload{
		UserID:      gen.UserID,
		UUID:        gen.UUID,
		Category:    gen.Category,
		Model:       gen.Model,
		Status:      gen.Status,
		ResultURL:   gen.ResultURL,
		ContentType: gen.ContentType,
		Credits:     gen.Credits,
		ErrorMsg:    gen.ErrorMsg,
		CreatedAt:   gen.CreatedAt.UTC().Format(time.RFC3339),
	}

	if gen.Status == models.GenerationStatusComplete || gen.Status == models.GenerationStatusFailed {
		if raw, err := json.Marshal(payload); err == nil {
			if err := cache.Set(cacheKey, string(raw), generationStatusCacheTTL); err != nil {
				log.Debugf("[Generate] Failed to cache status for %s: %v", genUUID, err)
			}
		}
	}

	if gen.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return notFound(c, "Generation not found")
	}

	return renderGenerationStatus(c, payload)
}

func renderGenerationStatus(c *fiber.Ctx, payload generationStatusPayload) error {
	return c.JSON(fiber.Map{
		"uuid":         payload.UUID,
		"category":     payload.Category,
		"model":        payload.Model,
		"status":       payload.Status,
		"result_url":   payload.ResultURL,
		"content_type": payload.ContentType,
		"credits":      payload.Credits,
		"error":        payload.ErrorMsg,
		"created_at":   payload.CreatedAt,
	})
}
