package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:     0,
	HTTP:     http.StatusOK,
	GRPCCode: codes.OK,
	Message:  "Success",
})

// Common request errors (Category: 01)
var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryRequest, 0),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Bad request",
	})

	// ErrInvalidParam indicates an invalid parameter.
	ErrInvalidParam = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryRequest, 1),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Invalid parameter",
	})

	// ErrMissingParam indicates a missing required parameter.
	ErrMissingParam = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryRequest, 2),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Missing required parameter",
	})

	// ErrRequestTooLarge indicates the request body is too large.
	ErrRequestTooLarge = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryRequest, 3),
		HTTP:     http.StatusRequestEntityTooLarge,
		GRPCCode: codes.InvalidArgument,
		Message:  "Request entity too large",
	})
)

// Authentication errors (Category: 02)
var (
	// ErrUnauthorized indicates the request carries no resolved owner identity.
	ErrUnauthorized = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryAuth, 0),
		HTTP:     http.StatusUnauthorized,
		GRPCCode: codes.Unauthenticated,
		Message:  "Unauthorized",
	})
)

// Common internal errors (Category: 07)
var (
	// ErrInternal indicates an internal server error.
	ErrInternal = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryInternal, 0),
		HTTP:     http.StatusInternalServerError,
		GRPCCode: codes.Internal,
		Message:  "Internal server error",
	})

	// ErrNotFound indicates the resource is not found.
	ErrNotFound = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryResource, 0),
		HTTP:     http.StatusNotFound,
		GRPCCode: codes.NotFound,
		Message:  "Resource not found",
	})

	// ErrRouteNotFound indicates the route is not found.
	ErrRouteNotFound = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryResource, 1),
		HTTP:     http.StatusNotFound,
		GRPCCode: codes.NotFound,
		Message:  "Route not found",
	})
)

// Document pipeline errors (Service: 20)
var (
	// ErrEmptyDocument indicates the document produced no chunks
	// (empty or whitespace-only content).
	ErrEmptyDocument = Register(&Errno{
		Code:     MakeCode(ServiceDocument, CategoryRequest, 0),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Document content is empty",
	})

	// ErrUnsupportedFileType indicates the uploaded file extension is not allowed.
	ErrUnsupportedFileType = Register(&Errno{
		Code:     MakeCode(ServiceDocument, CategoryRequest, 1),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Unsupported file type",
	})

	// ErrFileTooLarge indicates the uploaded file exceeds the size limit.
	ErrFileTooLarge = Register(&Errno{
		Code:     MakeCode(ServiceDocument, CategoryRequest, 2),
		HTTP:     http.StatusRequestEntityTooLarge,
		GRPCCode: codes.InvalidArgument,
		Message:  "File exceeds the maximum allowed size",
	})

	// ErrExtraction indicates text extraction from the uploaded file failed.
	ErrExtraction = Register(&Errno{
		Code:     MakeCode(ServiceDocument, CategoryRequest, 3),
		HTTP:     http.StatusBadRequest,
		GRPCCode: codes.InvalidArgument,
		Message:  "Failed to extract text from file",
	})

	// ErrDocumentNotFound indicates no chunks matched the document for the owner.
	ErrDocumentNotFound = Register(&Errno{
		Code:     MakeCode(ServiceDocument, CategoryResource, 0),
		HTTP:     http.StatusNotFound,
		GRPCCode: codes.NotFound,
		Message:  "Document not found",
	})
)

// Upstream provider errors (Service: 90, 91)
var (
	// ErrEmbedding indicates the embedding provider call failed or returned
	// a malformed response. The whole operation is aborted, never partial.
	ErrEmbedding = Register(&Errno{
		Code:     MakeCode(ServiceThirdPartyLLM, CategoryUpstream, 0),
		HTTP:     http.StatusBadGateway,
		GRPCCode: codes.Unavailable,
		Message:  "Embedding service error",
	})

	// ErrChatProvider indicates the chat completion provider call failed.
	ErrChatProvider = Register(&Errno{
		Code:     MakeCode(ServiceThirdPartyLLM, CategoryUpstream, 1),
		HTTP:     http.StatusBadGateway,
		GRPCCode: codes.Unavailable,
		Message:  "Chat provider error",
	})

	// ErrStorage indicates a vector store operation failed.
	ErrStorage = Register(&Errno{
		Code:     MakeCode(ServiceThirdPartyVectorStore, CategoryStorage, 0),
		HTTP:     http.StatusInternalServerError,
		GRPCCode: codes.Internal,
		Message:  "Vector storage error",
	})

	// ErrCache indicates an answer cache operation failed.
	ErrCache = Register(&Errno{
		Code:     MakeCode(ServiceCommon, CategoryCache, 0),
		HTTP:     http.StatusInternalServerError,
		GRPCCode: codes.Internal,
		Message:  "Cache error",
	})
)
