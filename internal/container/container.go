package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/joshua-takyi/careerportal/internal/config"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/search"
	"github.com/joshua-takyi/careerportal/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Cloudinary     *cloudinary.Cloudinary
	TokenValidator *helpers.TokenValidator
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Indexer        search.Indexer

	UserService        *services.UserService
	ListingService     *services.ListingService
	EventService       *services.EventService
	InteractionService *services.InteractionService
	AnalyticsService   *services.AnalyticsService
	ResumeService      *services.ResumeService
}

// NewContainer creates a new dependency injection container. cld and
// esClient may be nil when uploads or search are not configured.
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	tv *helpers.TokenValidator,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	cld *cloudinary.Cloudinary,
	esClient *es.Client,
) *Container {
	// Initialize repositories
	supa := models.SupabaseNewRepo(supabaseClient)
	mongo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBDatabase)

	var uploader helpers.ImageUploader
	if cld != nil {
		uploader = &helpers.CloudinaryUploader{Cld: cld}
	}
	var indexer search.Indexer = search.NoopIndexer{}
	if esClient != nil {
		indexer = search.NewElasticIndexer(esClient)
	}

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Cloudinary:         cld,
		TokenValidator:     tv,
		SupabaseClient:     supabaseClient,
		MongoDBClient:      mongoDBClient,
		Indexer:            indexer,
		UserService:        services.NewUserService(mongo, supa, cfg.AdminEmails),
		ListingService:     services.NewListingService(mongo, indexer, uploader, logger),
		EventService:       services.NewEventService(mongo, uploader, logger),
		InteractionService: services.NewInteractionService(mongo, mongo, mongo),
		AnalyticsService:   services.NewAnalyticsService(mongo, mongo, mongo, mongo, mongo),
		ResumeService:      services.NewResumeService(mongo),
	}
}
