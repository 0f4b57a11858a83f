package errno

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := errors.WithMessage(NotFoundErr.WithMessage("Video not found"), "load root")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))

	wrapped := fmt.Errorf("outer: %w", ConflictErr.WithMessagef("reaction %s", "k"))
	assert.True(t, IsConflict(wrapped))
}

func TestConvertErr(t *testing.T) {
	assert.Equal(t, Success, ConvertErr(nil))

	got := ConvertErr(errors.Wrap(ParamErr.WithMessage("bad page"), "paginate"))
	assert.Equal(t, int64(ParamErrCode), got.ErrCode)
	assert.Equal(t, "bad page", got.ErrMsg)

	got = ConvertErr(errors.New("Error 1054 (42S22): Unknown column 'secret' in 'where clause'"))
	assert.Equal(t, ServiceErr, got)
	assert.NotContains(t, got.ErrMsg, "secret")
}

func TestInvalidOperationIsInvalidArgument(t *testing.T) {
	assert.ErrorIs(t, InvalidOperationErr, ParamErr)
}
