package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReaderReportsMonotonically(t *testing.T) {
	data := make([]byte, 1<<20) // 1MB
	var reported []int

	pr := NewProgressReader(bytes.NewReader(data), int64(len(data)), func(pct int) {
		reported = append(reported, pct)
	})

	// Consume in uneven chunks like a network writer would.
	buf := make([]byte, 64<<10)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	pr.Finish()

	require.NotEmpty(t, reported)
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1], "progress must not decrease")
	}
	assert.Equal(t, 100, reported[len(reported)-1])
}

func TestProgressReaderHoldsBackFullUntilFinish(t *testing.T) {
	data := []byte("small file")
	var reported []int

	pr := NewProgressReader(bytes.NewReader(data), int64(len(data)), func(pct int) {
		reported = append(reported, pct)
	})

	_, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)

	// The reader alone never claims completion.
	for _, pct := range reported {
		assert.Less(t, pct, 100)
	}

	pr.Finish()
	assert.Equal(t, 100, reported[len(reported)-1])

	// Finish is idempotent.
	pr.Finish()
	assert.Equal(t, 100, reported[len(reported)-1])
}

func TestProgressReaderNilCallback(t *testing.T) {
	pr := NewProgressReader(bytes.NewReader([]byte("x")), 1, nil)
	_, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)
	pr.Finish()
}
