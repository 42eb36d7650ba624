package weather

import "github.com/sakif/juicebox/internal/apperror"

// clientErrorMessage is the error headline every 500-class weather failure
// carries back to the caller. The real cause lives in the AppError's Detail
// field, which the service layer gates on environment.
const clientErrorMessage = "An error occurred while fetching weather data."

func configError() *apperror.AppError {
	return apperror.Config(clientErrorMessage, MsgMissingKey)
}

func invalidKeyError(upstreamBody string) *apperror.AppError {
	detail := MsgInvalidKey
	if upstreamBody != "" {
		detail += " upstream: " + upstreamBody
	}
	return apperror.Upstream(clientErrorMessage, detail)
}

func locationNotFoundError() *apperror.AppError {
	return apperror.NotFoundMessage(MsgNotFound)
}

func unavailableError(detail string) *apperror.AppError {
	if detail == "" {
		detail = MsgUnavailable
	}
	return apperror.Upstream(clientErrorMessage, detail)
}
