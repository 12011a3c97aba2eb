package config

import (
	"reflect"
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_URL_ANON_KEY", "anon")
	t.Setenv("MONGODB_URI", "mongodb+srv://app:<password>@cluster0.example.net")
	t.Setenv("MONGODB_PASSWORD", "pw")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("PORT", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("MONGODB_DATABASE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.MongoDBDatabase != "careerportal" || !cfg.IsDevelopment() {
		t.Fatalf("defaults %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Fatalf("origins %v", cfg.AllowedOrigins)
	}
	if cfg.JWKSURL() != "https://abc.supabase.co/auth/v1/.well-known/jwks.json" {
		t.Fatalf("jwks %s", cfg.JWKSURL())
	}
	if cfg.CloudinaryEnabled() || cfg.AdminEmails != nil {
		t.Fatal("optional integrations enabled without settings")
	}
}

func TestLoadConfigLists(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://portal.example, ,https://admin.portal.example")
	t.Setenv("ADMIN_EMAILS", " Head@Uni.edu,tpo@uni.edu ")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://portal.example", "https://admin.portal.example"}) {
		t.Fatalf("origins %v", cfg.AllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.AdminEmails, []string{"head@uni.edu", "tpo@uni.edu"}) {
		t.Fatalf("admins %v", cfg.AdminEmails)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
}

func TestLoadConfigRequiresSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGODB_URI", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing MONGODB_URI accepted")
	}

	setRequired(t)
	t.Setenv("MONGODB_PASSWORD", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing password for templated uri accepted")
	}

	setRequired(t)
	t.Setenv("SUPABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing SUPABASE_URL accepted")
	}
}
