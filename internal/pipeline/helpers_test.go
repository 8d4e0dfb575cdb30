package pipeline_test

import "os"

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
