package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrInternalError = errors.New("Internal error")
	ErrAccessDenied  = errors.New("Access denied")
	ErrNotFound      = errors.New("Not found")
	ErrUnauthorizedClient = errors.New(
		"Unauthorized API client! Ensure you have provided a valid API secret and client ID in the request headers.",
	)
)

type apiResponse struct {
	Errors []string `json:"errors,omitempty"`
	Data   any      `json:"data,omitempty"`
}

func errorStrings(errs []error) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return messages
}

func RespondOK(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, apiResponse{Data: obj})
}

func RespondCreated(c *gin.Context, obj any) {
	c.JSON(http.StatusCreated, apiResponse{Data: obj})
}

func RespondBadRequestErr(c *gin.Context, errs []error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiResponse{Errors: errorStrings(errs)})
}

func RespondNotFoundErr(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, apiResponse{Errors: errorStrings([]error{ErrNotFound})})
}

func RespondCustomStatusErr(c *gin.Context, status int, errs []error) {
	c.AbortWithStatusJSON(status, apiResponse{Errors: errorStrings(errs)})
}

func RespondInternalErr(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, apiResponse{Errors: errorStrings([]error{ErrInternalError})})
}
