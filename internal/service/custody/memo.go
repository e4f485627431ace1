package custody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"donation-core/internal/model"
	"donation-core/pkg/amount"
	"donation-core/pkg/errno"
)

const memoFields = 5

// DonationIntent memo 解码后的捐款意图
type DonationIntent struct {
	DonationID      string           `json:"donation_id"`
	TargetKind      model.TargetKind `json:"target_kind"`
	CampaignID      *string          `json:"campaign_id"`
	EventID         *string          `json:"event_id"`
	ReferenceAmount float64          `json:"reference_amount"`
}

func (i DonationIntent) Target() (model.Target, bool) {
	switch i.TargetKind {
	case model.TargetCampaign:
		return model.CampaignTarget(*i.CampaignID), true
	case model.TargetEvent:
		return model.EventTarget(*i.EventID), true
	}
	return model.Target{}, false
}

// Donation 按意图构造捐款记录
func (i DonationIntent) Donation(donor, assetID string, amt decimal.Decimal) *model.Donation {
	return &model.Donation{
		ID:         i.DonationID,
		Donor:      donor,
		Asset:      assetID,
		Amount:     amt,
		AmountRef:  i.ReferenceAmount,
		TargetKind: i.TargetKind,
		EventID:    i.EventID,
		CampaignID: i.CampaignID,
	}
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errno.ErrMalformedMemo, fmt.Sprintf(format, args...))
}

// ParseMemo 解析转账附言。
// 冒号格式: donation_id:target_kind:campaign_id|null:event_id|null:reference_amount
// 以 '{' 开头时按带版本号的 JSON 格式解析，字段语义相同。
func ParseMemo(memo string) (DonationIntent, error) {
	memo = strings.TrimSpace(memo)
	if strings.HasPrefix(memo, "{") {
		return parseTaggedMemo(memo)
	}

	fields := strings.Split(memo, ":")
	if len(fields) != memoFields {
		return DonationIntent{}, malformed("expected %d fields, got %d", memoFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	ref, err := amount.ParseReference(fields[4])
	if err != nil {
		return DonationIntent{}, malformed("%v", err)
	}
	return buildIntent(fields[0], fields[1], model.NullableID(fields[2]), model.NullableID(fields[3]), ref)
}

type taggedMemo struct {
	V               int         `json:"v"`
	DonationID      string      `json:"donation_id"`
	TargetKind      string      `json:"target_kind"`
	CampaignID      *string     `json:"campaign_id"`
	EventID         *string     `json:"event_id"`
	ReferenceAmount json.Number `json:"reference_amount"`
}

func parseTaggedMemo(memo string) (DonationIntent, error) {
	var m taggedMemo
	dec := json.NewDecoder(bytes.NewReader([]byte(memo)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return DonationIntent{}, malformed("invalid json memo: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return DonationIntent{}, malformed("trailing data after json memo")
	}
	if m.V != 1 {
		return DonationIntent{}, malformed("unsupported memo version %d", m.V)
	}
	ref, err := amount.ParseReference(m.ReferenceAmount.String())
	if err != nil {
		return DonationIntent{}, malformed("%v", err)
	}
	unwrap := func(p *string) *string {
		if p == nil {
			return nil
		}
		return model.NullableID(*p)
	}
	return buildIntent(strings.TrimSpace(m.DonationID), m.TargetKind, unwrap(m.CampaignID), unwrap(m.EventID), ref)
}

func buildIntent(id, kind string, campaignID, eventID *string, ref float64) (DonationIntent, error) {
	if id == "" || id == model.NullSentinel {
		return DonationIntent{}, malformed("donation id is empty")
	}
	k, err := model.ParseTargetKind(kind)
	if err != nil {
		return DonationIntent{}, malformed("%v", err)
	}
	// 复用 Donation 的 kind/id 组合约束
	shape := model.Donation{ID: id, Donor: "-", TargetKind: k, CampaignID: campaignID, EventID: eventID}
	if err := shape.Validate(); err != nil {
		return DonationIntent{}, malformed("%v", err)
	}
	return DonationIntent{
		DonationID:      id,
		TargetKind:      k,
		CampaignID:      campaignID,
		EventID:         eventID,
		ReferenceAmount: ref,
	}, nil
}

func formatRef(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMemo 渲染冒号格式
func FormatMemo(i DonationIntent) string {
	return strings.Join([]string{
		i.DonationID,
		string(i.TargetKind),
		model.IDOrNull(i.CampaignID),
		model.IDOrNull(i.EventID),
		formatRef(i.ReferenceAmount),
	}, ":")
}

// FormatTaggedMemo 渲染 JSON 格式
func FormatTaggedMemo(i DonationIntent) string {
	data, _ := json.Marshal(taggedMemo{
		V:               1,
		DonationID:      i.DonationID,
		TargetKind:      string(i.TargetKind),
		CampaignID:      i.CampaignID,
		EventID:         i.EventID,
		ReferenceAmount: json.Number(formatRef(i.ReferenceAmount)),
	})
	return string(data)
}
