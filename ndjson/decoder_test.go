package ndjson_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/wenyan/ndjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, d *ndjson.Decoder) []string {
	t.Helper()
	var lines []string
	for {
		line, err := d.Next()
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

const body = "{\"type\":\"ai-flash\",\"data\":\"学而\"}\n" +
	"{\"type\":\"ai-flash\",\"data\":\"时习之\"}\r\n" +
	"\n" +
	"{\"type\":\"ai-thinking\",\"data\":{\"content\":\"不亦说乎\",\"stopped\":true}}\n"

func TestDecoder_Lines(t *testing.T) {
	t.Parallel()

	got := drain(t, ndjson.NewDecoder(strings.NewReader(body)))
	assert.Equal(t, []string{
		`{"type":"ai-flash","data":"学而"}`,
		`{"type":"ai-flash","data":"时习之"}`,
		`{"type":"ai-thinking","data":{"content":"不亦说乎","stopped":true}}`,
	}, got)
}

func TestDecoder_SplitInvariance(t *testing.T) {
	t.Parallel()

	want := drain(t, ndjson.NewDecoder(strings.NewReader(body)))

	t.Run("one byte reads", func(t *testing.T) {
		t.Parallel()
		got := drain(t, ndjson.NewDecoder(iotest.OneByteReader(strings.NewReader(body))))
		assert.Equal(t, want, got)
	})

	t.Run("half reads", func(t *testing.T) {
		t.Parallel()
		got := drain(t, ndjson.NewDecoder(iotest.HalfReader(strings.NewReader(body))))
		assert.Equal(t, want, got)
	})

	t.Run("every split point", func(t *testing.T) {
		t.Parallel()
		for i := 1; i < len(body); i++ {
			r := io.MultiReader(strings.NewReader(body[:i]), strings.NewReader(body[i:]))
			got := drain(t, ndjson.NewDecoder(r))
			assert.Equal(t, want, got, "split at byte %d", i)
		}
	})
}

func TestDecoder_FinalLineWithoutNewline(t *testing.T) {
	t.Parallel()
	got := drain(t, ndjson.NewDecoder(strings.NewReader("a\nb")))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDecoder_InvalidUTF8IsReplaced(t *testing.T) {
	t.Parallel()
	got := drain(t, ndjson.NewDecoder(strings.NewReader("a\xffb\n习\n")))
	assert.Equal(t, []string{"a�b", "习"}, got)
}

func TestDecoder_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	d := ndjson.NewDecoder(io.MultiReader(strings.NewReader("first\npart"), iotest.ErrReader(boom)))

	line, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	_, err = d.Next()
	assert.ErrorIs(t, err, boom)

	_, err = d.Next()
	assert.ErrorIs(t, err, boom, "terminal error repeats")
}

func TestDecoder_Empty(t *testing.T) {
	t.Parallel()
	_, err := ndjson.NewDecoder(strings.NewReader("")).Next()
	assert.Equal(t, io.EOF, err)
}
