package support

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"

	"github.com/shelfscan/expiryocr/internal/testutil"
)

// RegisterImageSteps wires test fixture generation: synthetic crops, corrupt
// files, directories and config files under the scenario temp dir.
func (tc *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a packaging crop image "([^"]*)"$`, tc.aPackagingCropImage)
	sc.Step(`^a blank image "([^"]*)"$`, tc.aBlankImage)
	sc.Step(`^a corrupt image file "([^"]*)"$`, tc.aCorruptImageFile)
	sc.Step(`^a directory "([^"]*)" with (\d+) crop images$`, tc.aDirectoryWithCrops)
	sc.Step(`^a config file "([^"]*)" containing:$`, tc.aConfigFile)
}

func (tc *TestContext) aPackagingCropImage(name string) error {
	img := testutil.GenerateTextImage(testutil.DefaultTextImageConfig())
	return imaging.Save(img, filepath.Join(tc.TempDir, name))
}

func (tc *TestContext) aBlankImage(name string) error {
	return imaging.Save(testutil.SolidImage(64, 64, 255), filepath.Join(tc.TempDir, name))
}

func (tc *TestContext) aCorruptImageFile(name string) error {
	return os.WriteFile(filepath.Join(tc.TempDir, name), []byte("not an image"), 0o600)
}

func (tc *TestContext) aDirectoryWithCrops(name string, count int) error {
	dir := filepath.Join(tc.TempDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range count {
		img := testutil.GenerateTextImage(testutil.DefaultTextImageConfig())
		if err := imaging.Save(img, filepath.Join(dir, fmt.Sprintf("crop_%02d.png", i))); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TestContext) aConfigFile(name string, content *godog.DocString) error {
	return os.WriteFile(filepath.Join(tc.TempDir, name), []byte(content.Content), 0o600)
}
