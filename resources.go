package linux_installer

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/GeertJohan/go.rice"
)

var (
	resourcesBox     *rice.Box
	resourcesBoxErr  error
	resourcesBoxOnce sync.Once
)

// openBoxes opens the resources box. For go.rice's 'embed' and 'append' modes to work,
// all calls to FindBox() have to be with a literal string parameter.
func openBoxes() (*rice.Box, error) {
	resourcesBoxOnce.Do(func() {
		resourcesBox, resourcesBoxErr = rice.FindBox("resources")
	})
	return resourcesBox, resourcesBoxErr
}

// GetResource returns the contents of the named file in the resources box.
func GetResource(name string) (string, error) {
	box, err := openBoxes()
	if err != nil {
		return "", err
	}
	text, err := box.String(name)
	if err != nil {
		return "", fmt.Errorf("resource %s not found: %w", name, err)
	}
	return text, nil
}

// GetResourceFiltered returns the contents of all files below dir whose path
// matches filter, indexed by their path inside the box.
func GetResourceFiltered(dir string, filter *regexp.Regexp) (map[string]string, error) {
	box, err := openBoxes()
	if err != nil {
		return nil, err
	}
	files := make(map[string]string)
	err = box.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		path = strings.TrimPrefix(path, "/")
		if info.IsDir() || !filter.MatchString(path) {
			return nil
		}
		content, err := box.String(path)
		if err != nil {
			return err
		}
		files[path] = content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource directory %s not readable: %w", dir, err)
	}
	return files, nil
}
