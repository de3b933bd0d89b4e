package generation

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/lunarworks/LanternFox/app/models"
	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
)

const maxPromptLength = 2000

// Charger is the billing contract the gate enforces: the debit must
// succeed before any billable external call is issued.
type Charger interface {
	Debit(ctx context.Context, userID string, amount int64, reason string) (int64, error)
}

// ImageGenerator produces a stylized image for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, image *ImageInput) (string, error)
}

// ImageStore persists completed generations.
type ImageStore interface {
	Create(ctx context.Context, image *models.GeneratedImage) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.GeneratedImage, error)
}

// Request is one generation attempt.
type Request struct {
	Prompt      string
	StyleID     string
	AspectRatio string
	// ImageDataURL optionally carries a reference photo as a data URL
	// for image-to-image generation.
	ImageDataURL   string
	SourceImageURL string
}

// Result is a completed, paid-for generation.
type Result struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	CreditsSpent int64  `json:"credits_spent"`
	NewBalance   int64  `json:"new_balance"`
}

// Service gates billable generation calls behind the credit ledger.
type Service struct {
	charger      Charger
	generator    ImageGenerator
	images       ImageStore
	costPerImage int64
}

func NewService(charger Charger, generator ImageGenerator, images ImageStore, costPerImage int64) *Service {
	if costPerImage <= 0 {
		costPerImage = 1
	}
	return &Service{charger: charger, generator: generator, images: images, costPerImage: costPerImage}
}

// Generate charges the user first and only then issues the external
// generation call. A failed upstream call does not refund the debit;
// issuing a compensating credit is an explicit caller decision, not
// something this gate does implicitly.
func (s *Service) Generate(ctx context.Context, userID string, req Request) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "prompt is required", apperr.ErrInvalidInput)
	}
	if len(prompt) > maxPromptLength {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "prompt is too long", apperr.ErrInvalidInput)
	}

	var image *ImageInput
	if req.ImageDataURL != "" {
		parsed, err := ParseImageDataURL(req.ImageDataURL)
		if err != nil {
			return nil, err
		}
		image = parsed
	}

	newBalance, err := s.charger.Debit(ctx, userID, s.costPerImage, models.ReasonImageGeneration)
	if err != nil {
		return nil, err
	}

	finalPrompt := BuildPrompt(prompt, req.StyleID)
	url, err := s.generator.GenerateImage(ctx, finalPrompt, image)
	if err != nil {
		// Credits stay consumed on upstream failure.
		fiberlog.Errorf("[Generation] upstream call failed after charging user %s: %v", userID, err)
		return nil, err
	}

	record := &models.GeneratedImage{
		ID:             uuid.NewString(),
		UserID:         userID,
		Prompt:         prompt,
		StyleID:        req.StyleID,
		AspectRatio:    req.AspectRatio,
		SourceImageURL: req.SourceImageURL,
		ResultURL:      url,
		CreditsSpent:   s.costPerImage,
	}
	if err := s.images.Create(ctx, record); err != nil {
		// The image was produced and paid for; losing the history row is
		// not worth failing the request over.
		fiberlog.Errorf("[Generation] failed to record generated image %s: %v", record.ID, err)
	}

	return &Result{
		ID:           record.ID,
		URL:          url,
		CreditsSpent: s.costPerImage,
		NewBalance:   newBalance,
	}, nil
}

// ListImages returns the user's generation history, newest first.
func (s *Service) ListImages(ctx context.Context, userID string, limit, offset int) ([]models.GeneratedImage, error) {
	return s.images.ListByUser(ctx, userID, limit, offset)
}

// CostPerImage exposes the configured per-generation price.
func (s *Service) CostPerImage() int64 {
	return s.costPerImage
}

var dataURLPattern = regexp.MustCompile(`^data:(image/(?:png|jpeg|jpg|gif|webp));base64$`)

// ParseImageDataURL validates a base64 image data URL and splits it into
// payload and mime type.
func ParseImageDataURL(dataURL string) (*ImageInput, error) {
	parts := strings.SplitN(dataURL, ",", 2)
	if len(parts) != 2 {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "invalid image data url", apperr.ErrInvalidInput)
	}
	m := dataURLPattern.FindStringSubmatch(parts[0])
	if m == nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "unsupported image mime type", apperr.ErrInvalidInput)
	}
	if _, err := base64.StdEncoding.DecodeString(parts[1]); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "invalid base64 image data", apperr.ErrInvalidInput)
	}
	return &ImageInput{Base64Data: parts[1], MimeType: m[1]}, nil
}
