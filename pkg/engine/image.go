package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/mirkobrombin/bocker/pkg/tools"
	"github.com/mirkobrombin/bocker/pkg/types"
	"github.com/schollz/progressbar/v3"
)

const sourceFile = "img.source"

// Init creates an image from a local directory tree (spec.md §4.3 init).
func (e *Engine) Init(srcDir string) (img types.Image, err error) {
	abs, err := filepath.Abs(srcDir)
	if err != nil {
		return types.Image{}, preconditionErr(srcDir, err)
	}

	id, err := e.allocate(kindImage)
	if err != nil {
		return types.Image{}, err
	}

	if err = e.createSubvolume(id); err != nil {
		return types.Image{}, err
	}
	if err = e.populate(id, abs); err != nil {
		return types.Image{}, err
	}

	sourcePath := filepath.Join(e.subvolumePath(id), sourceFile)
	source := abs
	if _, statErr := os.Stat(sourcePath); os.IsNotExist(statErr) {
		if err = os.WriteFile(sourcePath, []byte(abs), 0o644); err != nil {
			return types.Image{}, kernelRefusalErr(id, err)
		}
	} else if data, readErr := os.ReadFile(sourcePath); readErr == nil {
		source = string(data)
	}

	img = types.Image{Id: id, Source: source, Timestamp: time.Now()}
	if err = e.store.newImage(img); err != nil {
		return types.Image{}, err
	}

	e.Log.Infof("created image %s from %s", id, abs)
	return img, nil
}

// Pull fetches a remote layered image and materializes it into a new image
// (spec.md §4.3 pull). The dead early-uuid/run branch the original shell
// implementation contained is intentionally omitted (spec.md §9).
func (e *Engine) Pull(name, tag string) (img types.Image, err error) {
	ref := fmt.Sprintf("%s:%s", name, tag)
	if err = validateImageName(name); err != nil {
		return types.Image{}, preconditionErr(ref, err)
	}

	stagingRoot, err := os.MkdirTemp("", "bocker-pull-*")
	if err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}
	defer os.RemoveAll(stagingRoot)

	remoteImg, err := crane.Pull(ref, crane.WithContext(e.Ctx))
	if err != nil {
		return types.Image{}, preconditionErr(ref, fmt.Errorf("fetching %s: %w", ref, err))
	}

	tarPath := filepath.Join(stagingRoot, "image.tar")
	if err = crane.SaveLegacy(remoteImg, ref, tarPath); err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}

	extractDir := filepath.Join(stagingRoot, "extract")
	if err = os.MkdirAll(extractDir, 0o755); err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}
	if err = tools.TarUnpack(tarPath, extractDir); err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}

	manifest, err := readLegacyManifest(extractDir)
	if err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}

	// Extract each layer tarball in manifest order, then delete it — later
	// layers overwrite earlier ones (spec.md §4.3 step 3).
	bar := progressbar.NewOptions(len(manifest.Layers),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "━",
			SaucerHead:    "╸",
			SaucerPadding: " ",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription(fmt.Sprintf("pulling %s", ref)),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
	for _, layer := range manifest.Layers {
		layerPath := filepath.Join(extractDir, layer)
		if err = tools.TarUnpack(layerPath, extractDir); err != nil {
			return types.Image{}, kernelRefusalErr(ref, err)
		}
		_ = os.Remove(layerPath)
		_ = bar.Add(1)
	}

	// Delete the image config blob and registry-index artifacts, leaving
	// only the materialized rootfs (spec.md §4.3 step 4).
	_ = os.Remove(filepath.Join(extractDir, manifest.Config))
	_ = os.Remove(filepath.Join(extractDir, "manifest.json"))
	_ = os.Remove(filepath.Join(extractDir, "repositories"))

	if err = os.WriteFile(filepath.Join(extractDir, sourceFile), []byte(ref), 0o644); err != nil {
		return types.Image{}, kernelRefusalErr(ref, err)
	}

	return e.Init(extractDir)
}

// legacyManifest is the shape of the single entry in a docker-archive
// manifest.json, as produced by crane.SaveLegacy. Mirrors the fields the
// teacher's pkg/types/oci-manifest.go declares.
type legacyManifest struct {
	Config string   `json:"Config"`
	Layers []string `json:"Layers"`
}

func readLegacyManifest(dir string) (legacyManifest, error) {
	f, err := os.Open(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return legacyManifest{}, err
	}
	defer f.Close()

	var entries []legacyManifest
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return legacyManifest{}, err
	}
	if len(entries) == 0 {
		return legacyManifest{}, fmt.Errorf("manifest.json has no entries")
	}
	return entries[0], nil
}

// readSourceFile builds an Image record from an existing subvolume's
// img.source file, used by Commit to re-register the image it just
// replaced under a new timestamp.
func readSourceFile(subvolPath string) (types.Image, error) {
	data, err := os.ReadFile(filepath.Join(subvolPath, sourceFile))
	if err != nil {
		return types.Image{}, err
	}
	return types.Image{
		Id:        filepath.Base(subvolPath),
		Source:    string(data),
		Timestamp: time.Now(),
	}, nil
}

func validateImageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("image name must not be empty")
	}
	return nil
}
