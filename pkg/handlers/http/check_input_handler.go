package http

import (
	"errors"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/app/firewall"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/handlers/http/request"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type checkInputHandler struct {
	logger       *logrus.Logger
	inputChecker firewall.InputChecker
}

func NewCheckInputHandler(logger *logrus.Logger, inputChecker firewall.InputChecker) Handler {
	return &checkInputHandler{
		logger:       logger,
		inputChecker: inputChecker,
	}
}

// Handle @Summary Check an input against the firewall
// @Description Classifies user-supplied text and, when allowed, returns the downstream model's response
// @Tags Firewall
// @Accept json
// @Produce json
// @Success 200 {object} response.CheckInputOutput "Classification result"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Router /check-input [post]
func (h *checkInputHandler) Handle(c *fiber.Ctx) error {
	var req request.CheckInputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requestID := uuid.New().String()

	result, err := h.inputChecker.Check(c.Context(), checker.CheckRequest{
		Text:          req.Text,
		UserID:        req.UserID,
		SecurityLevel: checker.ParseSecurityLevel(req.SecurityLevel),
	})
	if err != nil {
		var invalidInput *checker.ErrInvalidInput
		if errors.As(err, &invalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalidInput.Error()})
		}
		h.logger.WithError(err).WithField("request_id", requestID).Error("input check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	score := result.Score
	out := response.CheckInputOutput{
		Status: string(result.Verdict),
		Score:  &score,
	}
	if result.Verdict == checker.VerdictBlock {
		out.Reason = result.Reason
	} else {
		out.Response = result.Response
	}

	return c.Status(fiber.StatusOK).JSON(out)
}
