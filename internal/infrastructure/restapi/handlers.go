package restapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"pool_monitor/internal/app/port"
	"pool_monitor/internal/domain/entity"
	"pool_monitor/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON renders v with jsoniter.
func writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.Data(http.StatusInternalServerError, "application/json; charset=utf-8",
			[]byte(`{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response"}}`))
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

// WalletsResponse is the body of GET /wallets.
type WalletsResponse struct {
	State           entity.RefreshState `json:"state"`
	CycleID         string              `json:"cycleId,omitempty"`
	LastRefreshedAt *time.Time          `json:"lastRefreshedAt,omitempty"`
	LastRefreshed   string              `json:"lastRefreshed"`
	Wallets         []entity.WalletData `json:"wallets"`
}

// RefreshResponse is the body of POST /refresh.
type RefreshResponse struct {
	Started bool                `json:"started"`
	State   entity.RefreshState `json:"state"`
}

// PoolFetchResponse is the body of the ad-hoc pool lookup.
type PoolFetchResponse struct {
	PoolID       string           `json:"poolId"`
	Coin         string           `json:"coin"`
	Address      string           `json:"address"`
	DashboardURL string           `json:"dashboardUrl,omitempty"`
	FetchedAt    time.Time        `json:"fetchedAt"`
	Stats        entity.PoolStats `json:"stats"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status          string              `json:"status"`
	State           entity.RefreshState `json:"refreshState"`
	LastRefreshedAt *time.Time          `json:"lastRefreshedAt,omitempty"`
}

// Handler serves the pool monitor API.
type Handler struct {
	coordinator port.RefreshCoordinator
	fetcher     port.PoolDataFetcher
	coins       port.CoinRegistry
	pools       port.PoolRegistry
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(
	coordinator port.RefreshCoordinator,
	fetcher port.PoolDataFetcher,
	coins port.CoinRegistry,
	pools port.PoolRegistry,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		coordinator: coordinator,
		fetcher:     fetcher,
		coins:       coins,
		pools:       pools,
		logger:      logger.Named("RestAPI"),
		now:         time.Now,
	}
}

// ListWallets godoc
// @Summary      Per-wallet pool data
// @Description  Latest result for every enabled wallet in display order, plus the refresh state.
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  WalletsResponse
// @Router       /wallets [get]
func (h *Handler) ListWallets(c *gin.Context) {
	snap := h.coordinator.Snapshot()
	var last time.Time
	if snap.LastRefreshedAt != nil {
		last = *snap.LastRefreshedAt
	}
	writeJSON(c, http.StatusOK, WalletsResponse{
		State:           snap.State,
		CycleID:         snap.CycleID,
		LastRefreshedAt: snap.LastRefreshedAt,
		LastRefreshed:   utils.FormatRelativeTime(last, h.now()),
		Wallets:         snap.Wallets,
	})
}

// GetWallet godoc
// @Summary      One wallet's pool data
// @Tags         wallets
// @Produce      json
// @Param        walletId  path  string  true  "Wallet id"
// @Success      200  {object}  entity.WalletData
// @Failure      404  {object}  ErrorResponse
// @Router       /wallets/{walletId} [get]
func (h *Handler) GetWallet(c *gin.Context) {
	id := c.Param("walletId")
	w, ok := h.coordinator.Snapshot().Wallet(id)
	if !ok {
		abortWithError(c, ErrorCodeNotFound, "wallet not found", id)
		return
	}
	writeJSON(c, http.StatusOK, w)
}

// Refresh godoc
// @Summary      Start a refresh cycle
// @Description  Returns 202 when a cycle started and 200 with started=false when one is already running.
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  RefreshResponse
// @Success      202  {object}  RefreshResponse
// @Router       /refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	started := h.coordinator.Trigger(c.Request.Context())
	status := http.StatusOK
	if started {
		status = http.StatusAccepted
		h.logger.Info("Refresh triggered via API", zap.String("request_id", c.GetString(requestIDKey)))
	}
	writeJSON(c, status, RefreshResponse{Started: started, State: h.coordinator.Snapshot().State})
}

// ListCoins godoc
// @Summary      Supported coins
// @Tags         registry
// @Produce      json
// @Success      200  {array}  entity.CoinConfig
// @Router       /coins [get]
func (h *Handler) ListCoins(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.coins.All())
}

// ListPools godoc
// @Summary      Supported pools
// @Tags         registry
// @Produce      json
// @Param        coin  query  string  false  "Only pools mining this coin"
// @Success      200  {array}  entity.PoolInfo
// @Router       /pools [get]
func (h *Handler) ListPools(c *gin.Context) {
	var adapters []entity.PoolAdapter
	if coin := strings.ToLower(strings.TrimSpace(c.Query("coin"))); coin != "" {
		adapters = h.pools.PoolsForCoin(coin)
	} else {
		adapters = h.pools.All()
	}
	out := make([]entity.PoolInfo, 0, len(adapters))
	for _, p := range adapters {
		out = append(out, p.Info())
	}
	writeJSON(c, http.StatusOK, out)
}

// FetchPool godoc
// @Summary      Look up one address on one pool
// @Description  Runs the fetch pipeline once, outside the refresh cycle.
// @Tags         pools
// @Produce      json
// @Param        poolId   path  string  true  "Pool id"
// @Param        coin     path  string  true  "Coin id"
// @Param        address  path  string  true  "Wallet address"
// @Success      200  {object}  PoolFetchResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /pools/{poolId}/{coin}/{address} [get]
func (h *Handler) FetchPool(c *gin.Context) {
	poolID := strings.ToLower(c.Param("poolId"))
	coin := strings.ToLower(c.Param("coin"))
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		abortWithError(c, ErrorCodeInvalid, "address is required", "")
		return
	}

	stats, err := h.fetcher.FetchPoolData(c.Request.Context(), poolID, coin, address)
	if err != nil {
		code := codeForError(err)
		h.logger.Warn("Ad-hoc pool fetch failed",
			zap.String("pool", poolID), zap.String("coin", coin), zap.String("code", string(code)), zap.Error(err))
		abortWithError(c, code, entity.UserMessage(err), err.Error())
		return
	}

	resp := PoolFetchResponse{PoolID: poolID, Coin: coin, Address: address, FetchedAt: h.now().UTC(), Stats: stats}
	if adapter, ok := h.pools.Resolve(poolID); ok {
		resp.DashboardURL, _ = adapter.BuildDashboardURL(coin, address)
	}
	writeJSON(c, http.StatusOK, resp)
}

// Healthz godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	snap := h.coordinator.Snapshot()
	writeJSON(c, http.StatusOK, HealthResponse{Status: "ok", State: snap.State, LastRefreshedAt: snap.LastRefreshedAt})
}
