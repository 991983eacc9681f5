package upload

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// UploadService предоставляет методы для работы с Cloudinary
type UploadService struct {
	cfg          *config.Config
	jwtService   *utils.JWTService
	uploadFolder string
}

// NewUploadService создает новый экземпляр UploadService
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{
		cfg:          cfg,
		jwtService:   utils.NewJWTService(cfg.JWTSecret),
		uploadFolder: cfg.CloudinaryConfig.UploadFolder,
	}
}

// GenerateUploadParams создаёт подписанные параметры для загрузки изображений
func (s *UploadService) GenerateUploadParams(c fiber.Ctx) error {
	// Генерируем ID для изображения, если не передан
	imageID := c.Query("image_id")
	if imageID == "" {
		imageID = uuid.New().String()
	}

	// Текущий timestamp
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Параметры для подписи
	params := url.Values{}
	params.Set("timestamp", timestamp)
	if s.uploadFolder != "" {
		params.Set("folder", s.uploadFolder)
	}

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		log.Printf("Ошибка подписи параметров загрузки: %v", err)
		return apperrors.Internal("Failed to sign upload parameters", err)
	}

	// Возвращаем параметры
	return c.JSON(fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.CloudinaryConfig.APIKey,
		"cloud_name": s.cfg.CloudinaryConfig.CloudName,
		"folder":     s.uploadFolder,
		"image_id":   imageID,
	})
}
