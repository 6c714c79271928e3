package move

import (
	"testing"

	"github.com/matryer/is"
)

func TestStringRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, m := range []Move{{0, 0}, {1, -2}, {3, 9}} {
		parsed, err := FromString(m.String())
		is.NoErr(err)
		is.Equal(parsed, m)
	}
}

func TestFromStringErrors(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"", "r4x1", "x3", "r1x", "r1 x2"} {
		_, err := FromString(s)
		is.True(err != nil)
	}
}
