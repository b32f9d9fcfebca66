package storex

import (
	"net/http"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	storeErrors = errx.NewRegistry("STORE")

	ErrConnectionFailed  = storeErrors.Register("CONNECTION_FAILED", errx.TypeUnavailable, http.StatusServiceUnavailable, "Store connection failed")
	ErrMongoFindFailed   = storeErrors.Register("MONGO_FIND_FAILED", errx.TypeSystem, http.StatusInternalServerError, "MongoDB find operation failed")
	ErrMongoUpdateFailed = storeErrors.Register("MONGO_UPDATE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "MongoDB update operation failed")
	ErrMongoDeleteFailed = storeErrors.Register("MONGO_DELETE_FAILED", errx.TypeSystem, http.StatusInternalServerError, "MongoDB delete operation failed")
)

// IsConnectionFailed reports a store that could not be reached
func IsConnectionFailed(err error) bool {
	return errx.IsCode(err, ErrConnectionFailed)
}
