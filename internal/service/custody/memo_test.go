package custody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/model"
	"donation-core/pkg/errno"
)

func TestParseMemo(t *testing.T) {
	intent, err := ParseMemo("don1:campaign:water-2024:null:9.98")
	require.NoError(t, err)
	assert.Equal(t, "don1", intent.DonationID)
	assert.Equal(t, model.TargetCampaign, intent.TargetKind)
	require.NotNil(t, intent.CampaignID)
	assert.Equal(t, "water-2024", *intent.CampaignID)
	assert.Nil(t, intent.EventID)
	assert.InDelta(t, 9.98, intent.ReferenceAmount, 1e-9)

	target, ok := intent.Target()
	assert.True(t, ok)
	assert.Equal(t, model.CampaignTarget("water-2024"), target)

	gen, err := ParseMemo("don2:general:null:null:0")
	require.NoError(t, err)
	_, ok = gen.Target()
	assert.False(t, ok)
}

func TestParseMemo_Malformed(t *testing.T) {
	bad := []string{
		"don1:campaign:water-2024:9.98",             // 少一个字段
		"don1:campaign:water-2024:null:9.98:extra",  // 多一个字段
		"don1:campaign:water-2024:null:abc",         // 参考金额不是数字
		"don1:campaign:water-2024:null:-3",          // 负数
		"don1:festival:water-2024:null:1",           // 未知类别
		"don1:CAMPAIGN:water-2024:null:1",           // 类别区分大小写
		":campaign:water-2024:null:1",               // 空 id
		"don1:campaign:null:null:1",                 // campaign 缺 id
		"don1:event:water-2024:gala:1",              // event 带了 campaign id
		"don1:general:water-2024:null:1",            // general 带了 id
		"",
	}
	for _, memo := range bad {
		_, err := ParseMemo(memo)
		assert.ErrorIs(t, err, errno.ErrMalformedMemo, memo)
		assert.True(t, errno.IsInvalidInput(err), memo)
	}
}

func TestParseMemo_Tagged(t *testing.T) {
	intent, err := ParseMemo(`{"v":1,"donation_id":"don9","target_kind":"event","campaign_id":"null","event_id":"gala","reference_amount":12.5}`)
	require.NoError(t, err)
	assert.Equal(t, model.TargetEvent, intent.TargetKind)
	assert.Nil(t, intent.CampaignID)
	assert.Equal(t, "gala", *intent.EventID)
	assert.InDelta(t, 12.5, intent.ReferenceAmount, 1e-9)

	_, err = ParseMemo(`{"v":2,"donation_id":"x","target_kind":"general","reference_amount":1}`)
	assert.ErrorIs(t, err, errno.ErrMalformedMemo)
	_, err = ParseMemo(`{"v":1,"donation_id":"x","target_kind":"general","reference_amount":1,"extra":true}`)
	assert.ErrorIs(t, err, errno.ErrMalformedMemo)
	_, err = ParseMemo(`{"v":1`)
	assert.ErrorIs(t, err, errno.ErrMalformedMemo)
	_, err = ParseMemo(`{"v":1,"donation_id":"x","target_kind":"Event","event_id":"gala","reference_amount":1}`)
	assert.ErrorIs(t, err, errno.ErrMalformedMemo)

	// 合法对象后面不能再跟任何内容
	for _, memo := range []string{
		`{"v":1,"donation_id":"x","target_kind":"general","reference_amount":1}garbage`,
		`{"v":1,"donation_id":"x","target_kind":"general","reference_amount":1}{"v":1}`,
		`{"v":1,"donation_id":"x","target_kind":"general","reference_amount":1} 7`,
	} {
		_, err = ParseMemo(memo)
		assert.ErrorIs(t, err, errno.ErrMalformedMemo, memo)
	}
	_, err = ParseMemo(`{"v":1,"donation_id":"x","target_kind":"general","reference_amount":1}` + "  \n")
	assert.NoError(t, err, "surrounding whitespace is trimmed")
}

func TestFormatMemo_RoundTrip(t *testing.T) {
	gala := "gala"
	in := DonationIntent{DonationID: "don3", TargetKind: model.TargetEvent, EventID: &gala, ReferenceAmount: 0.5}

	colon := FormatMemo(in)
	assert.Equal(t, "don3:event:null:gala:0.5", colon)
	out, err := ParseMemo(colon)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = ParseMemo(FormatTaggedMemo(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
