package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"prizevault/native/lottery"
)

const (
	codeLotteryInvalidParams = -32051
	codeLotteryNotFound      = -32052
	codeLotteryForbidden     = -32053
	codeLotteryConflict      = -32054
	codeLotteryPayment       = -32055
	codeLotteryInternal      = -32056
	codeLotteryDistribution  = -32057
)

type openDrawParams struct {
	Requester string `json:"requester"`
	Payment   string `json:"payment"`
}

type fulfillDrawParams struct {
	Caller      string `json:"caller"`
	RequestID   uint64 `json:"requestId"`
	RandomValue string `json:"randomValue"`
}

type requestIDParams struct {
	RequestID uint64 `json:"requestId"`
}

type addRewardParams struct {
	Caller string `json:"caller"`
	Kind   string `json:"kind"`
	Asset  string `json:"asset"`
	UnitID string `json:"unitId"`
	Amount string `json:"amount"`
	Weight uint64 `json:"weight"`
}

type setDrawPriceParams struct {
	Caller   string `json:"caller"`
	PriceWei string `json:"priceWei"`
}

type setPausedParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type callerParams struct {
	Caller string `json:"caller"`
}

type redistributeParams struct {
	Caller    string `json:"caller"`
	RequestID uint64 `json:"requestId"`
}

type assetCreditParams struct {
	Caller string `json:"caller"`
	Kind   string `json:"kind"`
	Asset  string `json:"asset"`
	UnitID string `json:"unitId"`
	Amount string `json:"amount"`
	Holder string `json:"holder"`
}

type rewardJSON struct {
	Kind   string `json:"kind"`
	Asset  string `json:"asset"`
	UnitID string `json:"unitId"`
	Amount string `json:"amount"`
	Weight uint64 `json:"weight,omitempty"`
}

type requestJSON struct {
	ID          uint64      `json:"id"`
	Requester   string      `json:"requester"`
	Status      string      `json:"status"`
	RandomValue string      `json:"randomValue,omitempty"`
	Delivered   bool        `json:"delivered"`
	Reward      *rewardJSON `json:"reward,omitempty"`
	CreatedAt   int64       `json:"createdAt"`
	FulfilledAt int64       `json:"fulfilledAt,omitempty"`
}

type openDrawResult struct {
	RequestID uint64 `json:"requestId"`
}

type indexResult struct {
	Index uint64 `json:"index"`
}

type okResult struct {
	OK bool `json:"ok"`
}

type withdrawResult struct {
	AmountWei string `json:"amountWei"`
}

type catalogResult struct {
	Entries     []rewardJSON `json:"entries"`
	TotalWeight string       `json:"totalWeight"`
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseAddress(field, value string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(value)
	if !ethcommon.IsHexAddress(trimmed) {
		return addr, fmt.Errorf("%s must be a hex address", field)
	}
	return ethcommon.HexToAddress(trimmed), nil
}

func parseBigInt(field, value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer", field)
	}
	return parsed, nil
}

func parseKind(value string) (lottery.RewardKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "fungible":
		return lottery.KindFungible, nil
	case "nonfungible":
		return lottery.KindNonFungible, nil
	case "semifungible":
		return lottery.KindSemiFungible, nil
	default:
		return lottery.KindNone, fmt.Errorf("unsupported reward kind %q", value)
	}
}

func rewardToJSON(entry *lottery.RewardEntry) *rewardJSON {
	if entry == nil {
		return nil
	}
	return &rewardJSON{
		Kind:   entry.Kind.String(),
		Asset:  ethcommon.BytesToAddress(entry.Asset[:]).Hex(),
		UnitID: entry.UnitID.String(),
		Amount: entry.Amount.String(),
		Weight: entry.Weight,
	}
}

func requestToJSON(req *lottery.DrawRequest) requestJSON {
	out := requestJSON{
		ID:          req.ID,
		Requester:   ethcommon.BytesToAddress(req.Requester[:]).Hex(),
		Status:      req.Status.String(),
		Delivered:   req.Delivered,
		CreatedAt:   req.CreatedAt,
		FulfilledAt: req.FulfilledAt,
	}
	if req.RandomValue != nil {
		out.RandomValue = req.RandomValue.String()
	}
	out.Reward = rewardToJSON(req.Reward)
	return out
}

func writeLotteryError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, lottery.ErrUnauthorized):
		writeError(w, http.StatusForbidden, id, codeLotteryForbidden, "forbidden", err.Error())
	case errors.Is(err, lottery.ErrUnknownRequest):
		writeError(w, http.StatusNotFound, id, codeLotteryNotFound, "not_found", err.Error())
	case errors.Is(err, lottery.ErrInsufficientPayment):
		writeError(w, http.StatusPaymentRequired, id, codeLotteryPayment, "insufficient_payment", err.Error())
	case errors.Is(err, lottery.ErrPaused),
		errors.Is(err, lottery.ErrAlreadyFulfilled),
		errors.Is(err, lottery.ErrAlreadyDelivered),
		errors.Is(err, lottery.ErrNotFulfilled):
		writeError(w, http.StatusConflict, id, codeLotteryConflict, "conflict", err.Error())
	case errors.Is(err, lottery.ErrInvalidWeight),
		errors.Is(err, lottery.ErrInvalidEntry),
		errors.Is(err, lottery.ErrNoRewardsConfigured):
		writeError(w, http.StatusBadRequest, id, codeLotteryInvalidParams, "invalid_params", err.Error())
	case errors.Is(err, lottery.ErrDistributionFailed):
		// The draw stays fulfilled; the transfer awaits remediation.
		writeError(w, http.StatusBadGateway, id, codeLotteryDistribution, "distribution_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeLotteryInternal, "internal_error", err.Error())
	}
}

func (s *Server) handleOpenDraw(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params openDrawParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	requester, err := parseAddress("requester", params.Requester)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := parseBigInt("payment", params.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := s.engine.OpenDraw(requester, payment)
	if err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	s.metrics.DrawOpened()
	s.metrics.SetCollectedBalance(s.engine.Collected())
	writeResult(w, req.ID, openDrawResult{RequestID: id})
}

func (s *Server) handleFulfillDraw(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params fulfillDrawParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	random, err := parseBigInt("randomValue", params.RandomValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.FulfillDraw(caller, params.RequestID, random); err != nil {
		if errors.Is(err, lottery.ErrDistributionFailed) {
			s.metrics.DrawFulfilled("failed")
			s.metrics.DistributionFailed()
		}
		writeLotteryError(w, req.ID, err)
		return
	}
	s.metrics.DrawFulfilled("delivered")
	writeResult(w, req.ID, okResult{OK: true})
}

func (s *Server) handleGetRequest(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params requestIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	status, err := s.engine.RequestStatus(params.RequestID)
	if err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, requestToJSON(status))
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	snap := s.engine.CatalogSnapshot()
	result := catalogResult{
		Entries:     make([]rewardJSON, 0, len(snap.Entries)),
		TotalWeight: snap.TotalWeight.String(),
	}
	for i := range snap.Entries {
		result.Entries = append(result.Entries, *rewardToJSON(&snap.Entries[i]))
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleAddReward(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params addRewardParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	kind, err := parseKind(params.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress("asset", params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	unitID, err := parseBigInt("unitId", params.UnitID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseBigInt("amount", params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	entry := &lottery.RewardEntry{Kind: kind, Asset: asset, UnitID: unitID, Amount: amount, Weight: params.Weight}
	index, err := s.engine.AddReward(caller, entry)
	if err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	s.metrics.SetCatalogEntries(len(s.engine.CatalogSnapshot().Entries))
	writeResult(w, req.ID, indexResult{Index: index})
}

func (s *Server) handleSetDrawPrice(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params setDrawPriceParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	price, err := parseBigInt("priceWei", params.PriceWei)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.SetDrawPrice(caller, price); err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, okResult{OK: true})
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params setPausedParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.SetPaused(caller, params.Paused); err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, okResult{OK: true})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params callerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := s.engine.Withdraw(caller)
	if err != nil {
		writeLotteryError(w, req.ID, err)
		return
	}
	s.metrics.SetCollectedBalance(s.engine.Collected())
	writeResult(w, req.ID, withdrawResult{AmountWei: amount.String()})
}

func (s *Server) handleRedistribute(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params redistributeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.Redistribute(caller, params.RequestID); err != nil {
		if errors.Is(err, lottery.ErrDistributionFailed) {
			s.metrics.DistributionFailed()
		}
		writeLotteryError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, okResult{OK: true})
}

func (s *Server) handleAssetCredit(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params assetCreditParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	if caller != s.engine.Owner() {
		writeLotteryError(w, req.ID, lottery.ErrUnauthorized)
		return
	}
	kind, err := parseKind(params.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	asset, err := parseAddress("asset", params.Asset)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	holder, err := parseAddress("holder", params.Holder)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	unitID, err := parseBigInt("unitId", params.UnitID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseBigInt("amount", params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeLotteryInvalidParams, "invalid_params", err.Error())
		return
	}
	switch kind {
	case lottery.KindFungible:
		err = s.book.CreditFungible(asset, holder, amount)
	case lottery.KindNonFungible:
		err = s.book.SetUniqueOwner(asset, unitID, holder)
	case lottery.KindSemiFungible:
		err = s.book.CreditUnits(asset, unitID, amount, holder)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeLotteryInternal, "internal_error", err.Error())
		return
	}
	writeResult(w, req.ID, okResult{OK: true})
}
