package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc.def.ghi", "abc.def.ghi", nil},
		{"BEARER   abc.def.ghi  ", "abc.def.ghi", nil},
		{"abc.def.ghi", "abc.def.ghi", nil},
		{"", "", ErrMissing},
		{"   ", "", ErrMissing},
		{"Bearer", "", ErrMissing},
		{"Bearer   ", "", ErrMissing},
	}

	for _, tc := range tests {
		got, err := BearerToken(tc.header)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, "header %q", tc.header)
			assert.ErrorIs(t, err, ErrUnauthenticated)
			continue
		}
		assert.NoError(t, err, "header %q", tc.header)
		assert.Equal(t, tc.want, got, "header %q", tc.header)
	}
}
