package spectrogram

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func openFile(path string) (*os.File, error) {
	return os.Open(path)
}

const dateLayout = "2006-01-02"
const timeLayout = "15:04:05.000"

func splitDatetime(t time.Time) (date, clock string) {
	u := t.UTC()
	return u.Format(dateLayout), u.Format(timeLayout)
}

func joinDatetime(date, clock string) (time.Time, error) {
	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid DATE-OBS/TIME-OBS %q %q: %w", date, clock, err)
	}
	return t.UTC(), nil
}
