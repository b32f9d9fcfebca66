package eventx

import (
	"net/http"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	ErrorRegistry = errx.NewRegistry("EVENT")

	ErrInvalidEventType    = ErrorRegistry.Register("INVALID_EVENT_TYPE", errx.TypeValidation, http.StatusBadRequest, "Event type must not be empty")
	ErrSerializationFailed = ErrorRegistry.Register("SERIALIZATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Event serialization failed")
	ErrPublishFailed       = ErrorRegistry.Register("PUBLISH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Event could not be published")
	ErrHandlerFailed       = ErrorRegistry.Register("HANDLER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Event handler returned an error")
	ErrBusClosed           = ErrorRegistry.Register("BUS_CLOSED", errx.TypeUnavailable, http.StatusServiceUnavailable, "Event bus is closed")
)
