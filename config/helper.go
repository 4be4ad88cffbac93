package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/mitchellh/go-homedir"
)

func expand(dir string) string {
	p, err := homedir.Expand(dir)
	if err != nil {
		return dir
	}
	return p
}

// makeWritableDir will make the given directory if it does not already exist and
// check that a file can be created inside it.
func makeWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory not set")
	}
	p, err := homedir.Expand(dir)
	if err != nil {
		return err
	}
	// Test if the dir exists.
	st, err := os.Stat(p)
	if os.IsNotExist(err) { // if it doesn't exist...
		if err = os.MkdirAll(p, 0755); err != nil { // if the dir was NOT created...
			return fmt.Errorf("error creating directory %v: %w", p, err)
		}
	} else if err != nil { // if there was an error getting status...
		return err
	} else if !st.IsDir() {
		return fmt.Errorf("%v is not a directory", p)
	}
	f, err := ioutil.TempFile(p, ".write-test-")
	if err != nil {
		return fmt.Errorf("directory %v is not writable: %w", p, err)
	}
	_ = f.Close()
	return os.Remove(f.Name())
}
