package prediction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKindSentinel(t *testing.T) {
	root := errors.New("root")
	err := &Error{Op: "prediction.read_row", Kind: KindParse, Field: "timestamp", Row: 3, Err: root}

	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrInference))
	assert.True(t, errors.Is(err, root))
	assert.True(t, IsKind(err, KindParse))
	assert.Equal(t, KindParse, KindOf(err))
	assert.Equal(t, "prediction.read_row: parse error (row=3) (field=timestamp): root", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindConfig))
}
