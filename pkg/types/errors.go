package types

import (
	"github.com/Qwinci/hzlauncher/pkg/errors"
)

func parseError(doc string, err error) error {
	return errors.Wrapf(err, errors.ErrParse, "failed to parse %s", doc)
}

func schemaErrorf(doc, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrParse, "invalid "+doc+": "+format, args...)
}
