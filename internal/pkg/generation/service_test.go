package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarworks/LanternFox/app/models"
	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
)

type fakeCharger struct {
	balance int64
	debits  []int64
	err     error
	calls   *[]string
}

func (c *fakeCharger) Debit(_ context.Context, _ string, amount int64, _ string) (int64, error) {
	if c.calls != nil {
		*c.calls = append(*c.calls, "debit")
	}
	if c.err != nil {
		return 0, c.err
	}
	c.balance -= amount
	c.debits = append(c.debits, amount)
	return c.balance, nil
}

type fakeGenerator struct {
	url     string
	err     error
	prompts []string
	calls   *[]string
}

func (g *fakeGenerator) GenerateImage(_ context.Context, prompt string, _ *ImageInput) (string, error) {
	if g.calls != nil {
		*g.calls = append(*g.calls, "generate")
	}
	if g.err != nil {
		return "", g.err
	}
	g.prompts = append(g.prompts, prompt)
	return g.url, nil
}

type fakeImageStore struct {
	images []models.GeneratedImage
	err    error
}

func (s *fakeImageStore) Create(_ context.Context, image *models.GeneratedImage) error {
	if s.err != nil {
		return s.err
	}
	s.images = append(s.images, *image)
	return nil
}

func (s *fakeImageStore) ListByUser(_ context.Context, userID string, _, _ int) ([]models.GeneratedImage, error) {
	var out []models.GeneratedImage
	for _, img := range s.images {
		if img.UserID == userID {
			out = append(out, img)
		}
	}
	return out, nil
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("charges then generates then records", func(t *testing.T) {
		var calls []string
		charger := &fakeCharger{balance: 10, calls: &calls}
		generator := &fakeGenerator{url: "data:image/png;base64,abc", calls: &calls}
		images := &fakeImageStore{}
		svc := NewService(charger, generator, images, 1)

		res, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern", StyleID: "ink_wash"})
		require.NoError(t, err)

		// The debit must land before any billable upstream call.
		assert.Equal(t, []string{"debit", "generate"}, calls)
		assert.Equal(t, int64(9), res.NewBalance)
		assert.Equal(t, int64(1), res.CreditsSpent)
		assert.Equal(t, generator.url, res.URL)

		require.Len(t, images.images, 1)
		assert.Equal(t, "A dragon lantern", images.images[0].Prompt)
		assert.Equal(t, "ink_wash", images.images[0].StyleID)
		assert.Equal(t, int64(1), images.images[0].CreditsSpent)

		// The upstream call sees the style-augmented prompt.
		require.Len(t, generator.prompts, 1)
		assert.True(t, strings.Contains(generator.prompts[0], StyleByID("ink_wash").PromptModifier))
	})

	t.Run("persists large data-url results intact", func(t *testing.T) {
		// A real generation result is a multi-hundred-KB data URL, not a
		// short link; the history row must carry it whole.
		payload := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 256*1024))
		generator := &fakeGenerator{url: "data:image/png;base64," + payload}
		images := &fakeImageStore{}
		svc := NewService(&fakeCharger{balance: 10}, generator, images, 1)

		res, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern"})
		require.NoError(t, err)

		require.Len(t, images.images, 1)
		assert.Equal(t, generator.url, images.images[0].ResultURL)
		assert.Equal(t, generator.url, res.URL)
		assert.Greater(t, len(images.images[0].ResultURL), 100_000)
	})

	t.Run("insufficient credits never reaches the generator", func(t *testing.T) {
		var calls []string
		charger := &fakeCharger{err: apperr.ErrInsufficientFunds, calls: &calls}
		generator := &fakeGenerator{url: "unused", calls: &calls}
		images := &fakeImageStore{}
		svc := NewService(charger, generator, images, 1)

		_, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern"})
		assert.True(t, errors.Is(err, apperr.ErrInsufficientFunds))
		assert.Equal(t, []string{"debit"}, calls)
		assert.Empty(t, images.images)
	})

	t.Run("upstream failure keeps the debit", func(t *testing.T) {
		charger := &fakeCharger{balance: 10}
		generator := &fakeGenerator{err: errors.New("model overloaded")}
		images := &fakeImageStore{}
		svc := NewService(charger, generator, images, 1)

		_, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern"})
		require.Error(t, err)

		// No compensating credit is issued here.
		assert.Equal(t, []int64{1}, charger.debits)
		assert.Equal(t, int64(9), charger.balance)
		assert.Empty(t, images.images)
	})

	t.Run("history write failure does not fail the request", func(t *testing.T) {
		charger := &fakeCharger{balance: 10}
		generator := &fakeGenerator{url: "https://img.example/1.png"}
		images := &fakeImageStore{err: errors.New("insert failed")}
		svc := NewService(charger, generator, images, 1)

		res, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern"})
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/1.png", res.URL)
	})

	t.Run("invalid prompts are rejected before charging", func(t *testing.T) {
		var calls []string
		charger := &fakeCharger{balance: 10, calls: &calls}
		svc := NewService(charger, &fakeGenerator{}, &fakeImageStore{}, 1)

		_, err := svc.Generate(ctx, "user-1", Request{Prompt: "   "})
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

		_, err = svc.Generate(ctx, "user-1", Request{Prompt: strings.Repeat("x", maxPromptLength+1)})
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

		assert.Empty(t, calls)
	})

	t.Run("malformed reference image is rejected before charging", func(t *testing.T) {
		var calls []string
		charger := &fakeCharger{balance: 10, calls: &calls}
		svc := NewService(charger, &fakeGenerator{}, &fakeImageStore{}, 1)

		_, err := svc.Generate(ctx, "user-1", Request{
			Prompt:       "A dragon lantern",
			ImageDataURL: "data:image/png;base64",
		})
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
		assert.Empty(t, calls)
	})

	t.Run("configured cost is charged per image", func(t *testing.T) {
		charger := &fakeCharger{balance: 10}
		svc := NewService(charger, &fakeGenerator{url: "u"}, &fakeImageStore{}, 3)

		_, err := svc.Generate(ctx, "user-1", Request{Prompt: "A dragon lantern"})
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, charger.debits)
		assert.Equal(t, int64(3), svc.CostPerImage())
	})
}

func TestParseImageDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	t.Run("valid png data url", func(t *testing.T) {
		in, err := ParseImageDataURL("data:image/png;base64," + payload)
		require.NoError(t, err)
		assert.Equal(t, "image/png", in.MimeType)
		assert.Equal(t, payload, in.Base64Data)
	})

	t.Run("rejects non-image mime types", func(t *testing.T) {
		_, err := ParseImageDataURL("data:text/html;base64," + payload)
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	})

	t.Run("rejects missing payload", func(t *testing.T) {
		_, err := ParseImageDataURL("data:image/png;base64")
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := ParseImageDataURL("data:image/png;base64,not*base64!")
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	})
}
