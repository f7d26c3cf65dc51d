package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aegiscyber/portal-services/internal/storage"
	"github.com/aegiscyber/portal-services/pkg/logger"
)

// Spec names one image the site needs and where to fetch it from.
// URLs are tried in order; the first success wins.
type Spec struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	URLs     []string `json:"urls"`
}

// ManifestEntry records where a fetched asset came from and where it landed.
type ManifestEntry struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	SourceURL string `json:"sourceUrl"`
	LocalPath string `json:"localPath"`
	ObjectKey string `json:"objectKey,omitempty"`
}

// Provisioner scaffolds the asset directory tree, downloads images with a
// fallback chain, and emits a manifest plus README. An optional object store
// mirrors the fetched files.
type Provisioner struct {
	root   string
	client *http.Client
	store  *storage.AssetStore
}

func NewProvisioner(root string, store *storage.AssetStore) *Provisioner {
	return &Provisioner{
		root:   root,
		client: &http.Client{Timeout: 30 * time.Second},
		store:  store,
	}
}

// SetHTTPClient overrides the download client.
func (p *Provisioner) SetHTTPClient(c *http.Client) { p.client = c }

// Scaffold creates one directory per category under the asset root.
func (p *Provisioner) Scaffold(categories []string) error {
	for _, cat := range categories {
		dir := filepath.Join(p.root, cat)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scaffold %s: %w", dir, err)
		}
	}
	return nil
}

// fetch downloads one asset, walking the URL fallback chain. It returns the
// URL that succeeded and the body.
func (p *Provisioner) fetch(ctx context.Context, spec Spec) (string, []byte, error) {
	var lastErr error
	for _, u := range spec.URLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			logger.Warnf("asset %s: fetch %s failed: %v", spec.Name, u, err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d from %s", resp.StatusCode, u)
			logger.Warnf("asset %s: %v", spec.Name, lastErr)
			continue
		}
		return u, body, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no urls configured")
	}
	return "", nil, fmt.Errorf("all sources failed for %s: %w", spec.Name, lastErr)
}

// Provision downloads every spec, writes files under root/category/name, and
// returns the manifest of what succeeded. A spec whose whole fallback chain
// fails is logged and skipped, never fatal.
func (p *Provisioner) Provision(ctx context.Context, specs []Spec) ([]ManifestEntry, error) {
	var manifest []ManifestEntry
	for _, spec := range specs {
		src, body, err := p.fetch(ctx, spec)
		if err != nil {
			logger.Errorf("%v", err)
			continue
		}
		local := filepath.Join(p.root, spec.Category, spec.Name)
		if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
			return manifest, fmt.Errorf("mkdir for %s: %w", spec.Name, err)
		}
		if err := os.WriteFile(local, body, 0o644); err != nil {
			return manifest, fmt.Errorf("write %s: %w", local, err)
		}

		entry := ManifestEntry{
			Name:      spec.Name,
			Category:  spec.Category,
			SourceURL: src,
			LocalPath: local,
		}
		if p.store != nil {
			key, err := p.store.PutAsset(ctx, spec.Category, spec.Name, bytes.NewReader(body), int64(len(body)), contentTypeFor(spec.Name))
			if err != nil {
				logger.Warnf("asset %s: object store upload failed: %v", spec.Name, err)
			} else {
				entry.ObjectKey = key
			}
		}
		manifest = append(manifest, entry)
		logger.Infof("asset %s fetched from %s", spec.Name, src)
	}
	return manifest, nil
}

// WriteManifest emits manifest.json and a README describing the tree.
func (p *Provisioner) WriteManifest(manifest []ManifestEntry) error {
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(p.root, "manifest.json"), b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	var readme bytes.Buffer
	readme.WriteString("# Site assets\n\n")
	readme.WriteString("Provisioned image assets, grouped by category. Regenerate with\n")
	readme.WriteString("`go run ./cmd/assets`. See manifest.json for source URLs.\n\n")
	for _, e := range manifest {
		fmt.Fprintf(&readme, "- %s/%s (from %s)\n", e.Category, e.Name, e.SourceURL)
	}
	if err := os.WriteFile(filepath.Join(p.root, "README.md"), readme.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write readme: %w", err)
	}
	return nil
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
