package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every JSON endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message"`
}

// ListMeta carries pagination details for list responses.
type ListMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

func send(c *fiber.Ctx, status int, body APIResponse, fallback string) error {
	if body.Message == "" {
		body.Message = fallback
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(body)
}

// SendSuccess sends a 200 success envelope with a message and payload.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success envelope using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	return send(c, status, APIResponse{Success: true, Data: data, Message: message}, "success")
}

// SendSuccessWithMeta sends a success envelope together with list metadata.
func SendSuccessWithMeta(c *fiber.Ctx, message string, data interface{}, meta interface{}) error {
	return send(c, fiber.StatusOK, APIResponse{Success: true, Data: data, Meta: meta, Message: message}, "success")
}

// SendError sends an error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return send(c, status, APIResponse{Success: false, Message: message}, "error")
}
