package httpinterface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/zerobond-network/zerobond-daemon/internal/core/application"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
	"github.com/zerobond-network/zerobond-daemon/internal/core/ports"
)

// accountHeader carries the identity of the caller of an operation.
const accountHeader = "X-Account-ID"

type ledgerHandler struct {
	svc    application.LedgerService
	pubsub ports.SecurePubSub
}

type createMarketRequest struct {
	Underlying string `json:"underlying"`
	Maturity   int64  `json:"maturity"`
	MaxDebt    string `json:"max_debt"`
	Price      string `json:"price"`
	Decimals   uint   `json:"decimals"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
}

type createMarketResponse struct {
	BondHandle string `json:"bond_handle"`
}

type marketOperationRequest struct {
	Underlying string `json:"underlying"`
	Maturity   int64  `json:"maturity"`
	Amount     string `json:"amount"`
}

type marketOperationResponse struct {
	Amount string `json:"amount"`
}

type adminResponse struct {
	Admin string `json:"admin"`
}

type transferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

type subscribeRequest struct {
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type subscribeResponse struct {
	Id string `json:"id"`
}

type unsubscribeRequest struct {
	Topic string `json:"topic"`
	Id    string `json:"id"`
}

type subscriptionInfo struct {
	Id        string `json:"id"`
	Topic     string `json:"topic"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var (
	errInvalidBody    = fmt.Errorf("invalid request body")
	errPubSubDisabled = fmt.Errorf("webhook notifications are disabled")
)

func parseAmount(raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("amount must be a base-10 integer")
	}
	return amount, nil
}

func marketQueryParams(r *http.Request) (string, int64, error) {
	underlying := r.URL.Query().Get("underlying")
	if underlying == "" {
		return "", 0, fmt.Errorf("missing underlying query parameter")
	}
	maturity, err := strconv.ParseInt(r.URL.Query().Get("maturity"), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("maturity must be a unix timestamp")
	}
	return underlying, maturity, nil
}

func (h *ledgerHandler) createMarket(w http.ResponseWriter, r *http.Request) {
	var req createMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	maxDebt, err := parseAmount(req.MaxDebt)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	price, err := parseAmount(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	handle, err := h.svc.CreateMarket(
		r.Context(), caller(r), req.Underlying, req.Maturity, maxDebt, price,
		req.Decimals, req.Name, req.Symbol,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createMarketResponse{BondHandle: handle})
}

func (h *ledgerHandler) listMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.svc.ListMarkets(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markets)
}

func (h *ledgerHandler) getMarket(w http.ResponseWriter, r *http.Request) {
	underlying, maturity, err := marketQueryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	info, err := h.svc.GetMarketInfo(r.Context(), underlying, maturity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *ledgerHandler) mintBonds(w http.ResponseWriter, r *http.Request) {
	h.marketOperation(w, r, h.svc.MintBonds)
}

func (h *ledgerHandler) repayDebt(w http.ResponseWriter, r *http.Request) {
	h.marketOperation(w, r, h.svc.RepayDebt)
}

func (h *ledgerHandler) redeemBonds(w http.ResponseWriter, r *http.Request) {
	h.marketOperation(w, r, h.svc.RedeemBonds)
}

func (h *ledgerHandler) marketOperation(
	w http.ResponseWriter, r *http.Request, op marketOperation,
) {
	var req marketOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := op(r.Context(), caller(r), req.Underlying, req.Maturity, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marketOperationResponse{Amount: res.String()})
}

func (h *ledgerHandler) getAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.svc.GetAdmin(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminResponse{Admin: admin})
}

func (h *ledgerHandler) transferAdmin(w http.ResponseWriter, r *http.Request) {
	var req transferAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	admin, err := h.svc.TransferAdmin(r.Context(), caller(r), req.NewAdmin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminResponse{Admin: admin})
}

func (h *ledgerHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	if h.pubsub == nil {
		writeError(w, http.StatusNotImplemented, errPubSubDisabled)
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	id, err := h.pubsub.Subscribe(req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, subscribeResponse{Id: id})
}

func (h *ledgerHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	if h.pubsub == nil {
		writeError(w, http.StatusNotImplemented, errPubSubDisabled)
		return
	}
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	if err := h.pubsub.Unsubscribe(req.Topic, req.Id); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ledgerHandler) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	if h.pubsub == nil {
		writeError(w, http.StatusNotImplemented, errPubSubDisabled)
		return
	}
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = ports.AnyTopic
	}

	subs := h.pubsub.ListSubscriptionsForTopic(topic)
	infos := make([]subscriptionInfo, 0, len(subs))
	for _, sub := range subs {
		infos = append(infos, subscriptionInfo{
			Id:        sub.Id(),
			Topic:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

type marketOperation func(
	ctx context.Context, caller, underlying string, maturity int64,
	amount *big.Int,
) (*big.Int, error)

func caller(r *http.Request) string {
	return r.Header.Get(accountHeader)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response body")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeServiceError maps ledger errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrMarketNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMarketAlreadyExists),
		errors.Is(err, application.ErrMarketBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMarketMatured),
		errors.Is(err, domain.ErrMarketNotMatured),
		errors.Is(err, domain.ErrMarketMaxDebtExceeded),
		errors.Is(err, domain.ErrMarketRepayExceedsMinted),
		errors.Is(err, domain.ErrMarketRedeemExceedsRepaid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrMarketInvalidUnderlying),
		errors.Is(err, domain.ErrMarketInvalidMaturity),
		errors.Is(err, domain.ErrMarketInvalidMaxDebt),
		errors.Is(err, domain.ErrMarketInvalidPrice),
		errors.Is(err, domain.ErrMarketInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrTransferFailed),
		errors.Is(err, application.ErrBondTokenFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
