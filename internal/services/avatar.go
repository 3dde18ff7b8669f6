package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/types"
)

const avatarSize = 512

// AvatarService renders an initials avatar for a new user and uploads
// it to the bucket. When no font is configured the service is a no-op
// so registration never depends on a local asset being present.
type AvatarService interface {
	CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log           *logger.Logger
	bucketService BucketService
	bgColors      []color.NRGBA
	fontFace      font.Face
}

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	svc := &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		bgColors: []color.NRGBA{
			{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
			{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
			{R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF},
			{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
			{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
			{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
		},
	}

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		serviceLog.Warn("AVATAR_FONT not set, initials avatars disabled")
		return svc, nil
	}
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}
	svc.fontFace = face
	return svc, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	if as.fontFace == nil || as.bucketService == nil {
		return nil
	}

	buf, err := as.renderInitialsAvatar(user)
	if err != nil {
		return fmt.Errorf("failed to render user avatar: %w", err)
	}

	key := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())
	if err := as.bucketService.UploadFile(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to upload user avatar: %w", err)
	}
	user.AvatarBucketKey = key
	user.AvatarURL = as.bucketService.GetPublicURL(key)
	return nil
}

func (as *avatarService) renderInitialsAvatar(user *types.User) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(avatarSize, avatarSize)
	bg := as.bgColors[colorIndexFor(user.Email, len(as.bgColors))]
	dc.SetColor(bg)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initialsFor(user), avatarSize/2, avatarSize/2, 0.5, 0.5)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode avatar png: %w", err)
	}
	return buf, nil
}

func initialsFor(user *types.User) string {
	var sb strings.Builder
	if user.FirstName != "" {
		sb.WriteString(strings.ToUpper(user.FirstName[:1]))
	}
	if user.LastName != "" {
		sb.WriteString(strings.ToUpper(user.LastName[:1]))
	}
	if sb.Len() == 0 {
		return "?"
	}
	return sb.String()
}

func colorIndexFor(seed string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return int(h.Sum32() % uint32(n))
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse truetype font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
