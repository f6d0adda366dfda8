//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"testing"

	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid argument", err: errs.Mark(errs.New("quantity out of range"), errs.ErrInvalidArgument), want: http.StatusBadRequest},
		{name: "wrapped not found", err: errs.Wrap(errs.Mark(errs.New("card not found"), errs.ErrNotFound), "load card"), want: http.StatusNotFound},
		{name: "issuance failure", err: errs.Mark(errs.New("write chunk"), errs.ErrIssuanceFailed), want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httperr.StatusOf(tt.err))
		})
	}
}
