package model

import (
	"fmt"
	"strings"
)

// TargetKind 捐款去向类别
type TargetKind string

const (
	TargetGeneral  TargetKind = "general"
	TargetEvent    TargetKind = "event"
	TargetCampaign TargetKind = "campaign"
)

// NullSentinel memo / 显式创建接口里表示 "无 id" 的字面量
const NullSentinel = "null"

// ParseTargetKind 只接受小写的精确值
func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case TargetGeneral:
		return TargetGeneral, nil
	case TargetEvent:
		return TargetEvent, nil
	case TargetCampaign:
		return TargetCampaign, nil
	}
	return "", fmt.Errorf("unknown target kind %q", s)
}

// Votable 只有 event / campaign 拥有投票人集合和候选伙伴
func (k TargetKind) Votable() bool {
	return k == TargetEvent || k == TargetCampaign
}

// Target 指向一个可投票对象 (campaign 或 event)
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

func CampaignTarget(id string) Target { return Target{Kind: TargetCampaign, ID: id} }
func EventTarget(id string) Target    { return Target{Kind: TargetEvent, ID: id} }

func (t Target) String() string {
	return string(t.Kind) + ":" + t.ID
}

// NullableID 把 "null" / 空串 解析为 nil
func NullableID(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == NullSentinel {
		return nil
	}
	return &s
}

// IDOrNull 反向格式化
func IDOrNull(p *string) string {
	if p == nil {
		return NullSentinel
	}
	return *p
}
