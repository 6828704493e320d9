package services

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/betwise/betwise-backend/internal/logger"
	"github.com/betwise/betwise-backend/internal/types"
)

// AvatarService renders an initials avatar for a new user and serves it from
// the local media directory. It is optional: when the font is not configured
// the service is absent and registration proceeds without an avatar.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, user *types.User) error
	RemoveUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
	bgColors []color.NRGBA
}

const avatarRenderSize = 512
const avatarSize = 256

func NewAvatarService(log *logger.Logger, mediaDir string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	face, err := loadFontFace(fontPath, avatarRenderSize*0.42)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create avatar directory: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
		bgColors: []color.NRGBA{
			{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF},
			{R: 0x15, G: 0x65, B: 0xC0, A: 0xFF},
			{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF},
			{R: 0x6A, G: 0x1B, B: 0x9A, A: 0xFF},
			{R: 0xEF, G: 0x6C, B: 0x00, A: 0xFF},
			{R: 0x00, G: 0x83, B: 0x8F, A: 0xFF},
		},
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	initials := initialsOf(user.Username)
	bg := as.bgColors[int(user.ID[0])%len(as.bgColors)]

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	// Render large, scale down for smoother glyph edges.
	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	name := fmt.Sprintf("%s.png", user.ID.String())
	path := filepath.Join(as.mediaDir, "avatars", name)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create avatar file: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, dst); err != nil {
		return fmt.Errorf("could not encode avatar: %w", err)
	}

	user.AvatarURL = "/media/avatars/" + name
	as.log.Debug("Rendered user avatar", "path", path)
	return nil
}

// RemoveUserAvatar deletes the rendered file again, used when a registration
// fails after the avatar was written. A missing file is not an error.
func (as *avatarService) RemoveUserAvatar(ctx context.Context, user *types.User) error {
	name := fmt.Sprintf("%s.png", user.ID.String())
	path := filepath.Join(as.mediaDir, "avatars", name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove avatar file: %w", err)
	}
	user.AvatarURL = ""
	return nil
}

func initialsOf(username string) string {
	fields := strings.FieldsFunc(username, func(r rune) bool {
		return r == ' ' || r == '.' || r == '_' || r == '-'
	})
	var initials []rune
	for _, f := range fields {
		for _, r := range f {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}
