package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/aegiscyber/portal-services/internal/assets"
	"github.com/aegiscyber/portal-services/internal/storage"
	"github.com/aegiscyber/portal-services/pkg/logger"
	"github.com/joho/godotenv"
)

// Provisions the site's image assets: scaffolds the category tree, fetches
// each catalog entry with its URL fallback chain, writes manifest.json and a
// README, and mirrors the files to object storage when MINIO_ENDPOINT is set.
func main() {
	root := flag.String("root", "web/assets/images", "directory to place assets under")
	scaffoldOnly := flag.Bool("scaffold-only", false, "create category directories and exit")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall provisioning deadline")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}
	logger.Init(os.Getenv("LOG_LEVEL"))

	var store *storage.AssetStore
	if cfg := storage.LoadConfig(); cfg.Enabled() {
		s, err := storage.NewAssetStore(cfg)
		if err != nil {
			logger.Warnf("object store unavailable, keeping assets local only: %v", err)
		} else {
			store = s
		}
	}

	p := assets.NewProvisioner(*root, store)
	if err := p.Scaffold(assets.Categories); err != nil {
		logger.Fatalf("scaffold: %v", err)
	}
	if *scaffoldOnly {
		logger.Infof("category directories created under %s", *root)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	manifest, err := p.Provision(ctx, assets.DefaultCatalog)
	if err != nil {
		logger.Fatalf("provision: %v", err)
	}
	if err := p.WriteManifest(manifest); err != nil {
		logger.Fatalf("manifest: %v", err)
	}
	logger.Infof("provisioned %d/%d assets under %s", len(manifest), len(assets.DefaultCatalog), *root)
}
