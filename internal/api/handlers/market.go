package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"consensus-market/internal/analysis"
	"consensus-market/internal/api/models"
	"consensus-market/internal/config"
	"consensus-market/internal/data"
	"consensus-market/internal/market"
	"consensus-market/internal/model"
	"consensus-market/internal/sweep"
	"consensus-market/internal/wire"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/logx"
)

// maxSnapshotBytes bounds a msgpack participant body.
const maxSnapshotBytes = 1 << 20

// MarketHandler handles market-related requests
type MarketHandler struct {
	registry *Registry
	engine   *sweep.Engine
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(registry *Registry) *MarketHandler {
	return &MarketHandler{registry: registry, engine: sweep.New()}
}

// CreateMarket handles POST /api/v1/markets
func (h *MarketHandler) CreateMarket(c *gin.Context) {
	var req models.CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	policy, err := model.ParseMonotonicPolicy(req.MonotonicPolicy)
	if err != nil {
		writeError(c, model.ConfigErrorf("monotonic_policy", "%v", err))
		return
	}
	buildings, err := data.BuildBuildings(req.Buildings, policy)
	if err != nil {
		writeError(c, err)
		return
	}
	m, err := market.New(market.Options{Policy: policy}, buildings...)
	if err != nil {
		writeError(c, err)
		return
	}

	id := h.registry.Create(m, buildings)
	logx.Infof("created market %s with %d participants (policy %s)", id, m.Len(), policy)
	c.JSON(http.StatusCreated, marketResponse(id, m))
}

// GetMarket handles GET /api/v1/markets/:id
func (h *MarketHandler) GetMarket(c *gin.Context) {
	id := c.Param("id")
	var resp models.MarketDetailResponse
	err := h.registry.With(id, func(m *market.Market, _ []*model.Building) error {
		var buf bytes.Buffer
		m.Display(&buf)
		resp = models.MarketDetailResponse{
			MarketResponse: marketResponse(id, m),
			Aggregate:      []model.Point{},
			Display:        buf.String(),
		}
		if agg := m.Aggregate(); agg != nil {
			resp.Aggregate = agg.Points()
		}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMarket handles DELETE /api/v1/markets/:id
func (h *MarketHandler) DeleteMarket(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddParticipant handles POST /api/v1/markets/:id/participants.
// The body is either JSON {name, points} or a msgpack snapshot.
func (h *MarketHandler) AddParticipant(c *gin.Context) {
	snap, err := readSnapshot(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	var resp models.MarketResponse
	err = h.registry.With(id, func(m *market.Market, _ []*model.Building) error {
		if err := snap.AddTo(m); err != nil {
			return err
		}
		resp = marketResponse(id, m)
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	logx.Infof("market %s: added remote participant %q", id, snap.Name)
	c.JSON(http.StatusCreated, resp)
}

func readSnapshot(c *gin.Context) (wire.Snapshot, error) {
	if strings.HasPrefix(c.ContentType(), wire.ContentType) {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes+1))
		if err != nil {
			return wire.Snapshot{}, err
		}
		if len(raw) > maxSnapshotBytes {
			return wire.Snapshot{}, fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotBytes)
		}
		return wire.Decode(raw)
	}

	var req models.ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return wire.Snapshot{}, err
	}
	return wire.Snapshot{Name: req.Name, Points: req.Points}, nil
}

// Clear handles GET /api/v1/markets/:id/clear?offer=Q
func (h *MarketHandler) Clear(c *gin.Context) {
	var req models.ClearRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if math.IsNaN(*req.Offer) || math.IsInf(*req.Offer, 0) {
		badRequest(c, fmt.Errorf("offer must be a finite number, got %v", *req.Offer))
		return
	}

	var resp models.ClearResponse
	err := h.registry.With(c.Param("id"), func(m *market.Market, buildings []*model.Building) error {
		price, err := m.ClearOffer(*req.Offer)
		if err != nil {
			return err
		}
		resp = models.ClearResponse{Offer: *req.Offer, Price: price, Loads: make([]sweep.Load, 0, len(buildings))}
		for _, b := range buildings {
			q := b.LoadAtPrice(price)
			resp.Loads = append(resp.Loads, sweep.Load{Name: b.Name, Quantity: q, Response: b.ResponseAtLoad(q)})
			resp.TotalLoad += q
		}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sweep handles POST /api/v1/markets/:id/sweep
func (h *MarketHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	r := config.MergeSweep(config.DefaultSweep(), config.SweepConfig{
		Start: req.Start,
		Stop:  req.Stop,
		Step:  req.Step,
	}).Range()

	var res *sweep.Result
	err := h.registry.With(c.Param("id"), func(m *market.Market, buildings []*model.Building) error {
		var err error
		res, err = h.engine.Run(m, buildings, r)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SweepResponse{
		Range:        res.Range,
		Buildings:    res.Buildings,
		Rows:         res.Rows,
		MaxTotalLoad: res.MaxTotalLoad,
		Summary:      analysis.Summarize(res),
		Flexibility:  analysis.RankByFlexibility(res),
	})
}

func marketResponse(id string, m *market.Market) models.MarketResponse {
	return models.MarketResponse{
		ID:           id,
		State:        m.State(),
		Policy:       string(m.Policy()),
		Participants: m.Participants(),
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, ErrMarketNotFound):
		status, code = http.StatusNotFound, "MARKET_NOT_FOUND"
	case errors.Is(err, market.ErrNoParticipants):
		status, code = http.StatusConflict, "EMPTY_MARKET"
	case errors.Is(err, model.ErrConfiguration):
		status, code = http.StatusBadRequest, "INVALID_CONFIG"
	}

	detail := models.ErrorDetail{Code: code, Message: err.Error()}
	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		detail.Details = map[string]interface{}{"field": cfgErr.Field}
	}
	if status == http.StatusInternalServerError {
		logx.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
}
