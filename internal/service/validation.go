package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ── 通用校验辅助 ──

// CURPLength CURP 固定长度
const CURPLength = 18

// curpPattern CURP 结构：4 位字母 + 6 位出生日期 + 性别(H/M) + 5 位字母 + 1 位字母或数字 + 1 位校验数字
var curpPattern = regexp.MustCompile(`^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`)

// NormalizeCURP 去除首尾空白并转为大写
func NormalizeCURP(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCURP 判断 CURP 是否符合结构规则（先规范化）
func ValidCURP(s string) bool {
	return curpPattern.MatchString(NormalizeCURP(s))
}

// hasCURPLength 导入校验仅要求非空且恰为 18 个字符
func hasCURPLength(s string) bool {
	return s != "" && utf8.RuneCountInString(s) == CURPLength
}

// ValidScore 成绩取值范围 [0, 100]
func ValidScore(score float64) bool {
	return score >= 0 && score <= 100
}

// ── 成绩等级（仅用于展示） ──

const (
	LevelHigh = "high" // >= 90
	LevelMid  = "mid"  // 70 ~ 89.x
	LevelLow  = "low"  // < 70
)

// ScoreLevel 按分数返回展示等级
func ScoreLevel(score float64) string {
	switch {
	case score >= 90:
		return LevelHigh
	case score >= 70:
		return LevelMid
	default:
		return LevelLow
	}
}
