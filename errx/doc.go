/*
Package errx provides the structured error type used across mockup2html.
Errors carry a type, a prefixed code, optional details and the HTTP status
the API layer responds with.

# Registries

Every package declares its own registry so codes stay unique:

	var inferenceErrors = errx.NewRegistry("INFERENCE")

	var ErrMalformedResponse = inferenceErrors.Register(
		"MALFORMED_RESPONSE", errx.TypeExternal, http.StatusBadGateway,
		"Inference response has no predictions field")

	return inferenceErrors.New(ErrMalformedResponse).
		WithDetail("body", string(body))

# Checking

	if errx.IsCode(err, markup.ErrUnknownElementClass) {
		// handle the unmapped label
	}

# Fiber

Handlers can return *Error directly when the app is configured with
FiberErrorHandler:

	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
*/
package errx
