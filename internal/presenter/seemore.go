package presenter

import "strings"

const (
	KakaoSeeMorePadding = 500
	KakaoZeroWidthSpace = "\u200b"
)

// 카카오톡 '전체보기'용 제로폭 문자를 채워 긴 본문을 접는다.
func ApplyKakaoSeeMorePadding(text, instruction string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	var b strings.Builder
	instruction = strings.TrimSpace(instruction)
	b.Grow(len(text) + len(instruction) + KakaoSeeMorePadding*len(KakaoZeroWidthSpace) + 1)
	b.WriteString(instruction)
	b.WriteString(strings.Repeat(KakaoZeroWidthSpace, KakaoSeeMorePadding))
	if !strings.HasPrefix(text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(text)
	return b.String()
}

// 본문 첫 줄의 중복 헤더를 떼고 헤더를 '전체보기' 안내로 올린다.
func ApplySeeMoreWithHeader(text, header string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	header = strings.TrimSpace(header)
	body := text
	for _, sep := range []string{"\r\n\r\n", "\n\n", "\r\n", "\n", ""} {
		if header != "" && strings.HasPrefix(body, header+sep) {
			body = strings.TrimPrefix(body, header+sep)
			break
		}
	}
	return ApplyKakaoSeeMorePadding(body, header)
}
