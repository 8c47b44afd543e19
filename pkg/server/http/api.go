package httpfiber

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/dapp"
	"github.com/kalondepeace/Celo-Faucet/pkg/faucet"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/wallet"
)

type requestBody struct {
	Address string `json:"address"`
}

type swapBody struct {
	Amount string `json:"amount"`
}

type response struct {
	Error string     `json:"error,omitempty"`
	State dapp.State `json:"state"`
}

// statusFor maps flow errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, dapp.ErrFlowInProgress):
		return fiber.StatusConflict
	case errors.Is(err, dapp.ErrNotConnected),
		errors.Is(err, wallet.ErrProviderUnavailable):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, currency.ErrInvalidAmount),
		errors.Is(err, currency.ErrTooPrecise),
		errors.Is(err, faucet.ErrInvalidRequestor):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadGateway
	}
}

func (s *Server) reply(c *fiber.Ctx, err error) error {
	resp := response{State: s.dapp.State()}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.Status(statusFor(err)).JSON(resp)
}

func (s *Server) getState(c *fiber.Ctx) error {
	return c.JSON(s.dapp.State())
}

func (s *Server) getUnits(c *fiber.Ctx) error {
	return c.JSON(s.dapp.Units())
}

// getNotification returns the banner. With ?wait=<duration> it blocks until
// the banner changes or the wait elapses.
func (s *Server) getNotification(c *fiber.Ctx) error {
	banner := s.dapp.Banner()
	raw := c.Query("wait")
	if raw == "" {
		return c.JSON(banner.Current())
	}

	wait, err := time.ParseDuration(raw)
	if err != nil || wait < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid wait duration"})
	}
	if wait > s.maxWait {
		wait = s.maxWait
	}

	updates, stop := banner.Subscribe()
	defer stop()
	initial := <-updates

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case n := <-updates:
		return c.JSON(n)
	case <-timer.C:
		return c.JSON(initial)
	case <-c.UserContext().Done():
		return c.JSON(banner.Current())
	}
}

func (s *Server) postConnect(c *fiber.Ctx) error {
	err := s.dapp.Load(c.UserContext())
	if err != nil {
		logger.Warnf("connect failed: %v", err)
	}
	return s.reply(c, err)
}

func (s *Server) postRefresh(c *fiber.Ctx) error {
	ctx := c.UserContext()
	err := errors.Join(
		s.dapp.RefreshWalletBalance(ctx),
		s.dapp.RefreshContractBalances(ctx),
	)
	return s.reply(c, err)
}

func (s *Server) postRequest(c *fiber.Ctx) error {
	var body requestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return s.reply(c, s.dapp.RequestTokens(c.UserContext(), body.Address))
}

func (s *Server) postSwap(c *fiber.Ctx) error {
	var body swapBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return s.reply(c, s.dapp.SwapToken(c.UserContext(), body.Amount))
}
