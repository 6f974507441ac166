package service

import (
	"errors"
	"fmt"

	"github.com/inkpost/internal/models"
)

// wrapNormalizeError 将模型规范化错误归入校验失败
func wrapNormalizeError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrSlugEmpty),
		errors.Is(err, models.ErrInvalidStatus):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
