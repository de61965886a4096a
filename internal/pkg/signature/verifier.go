package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Verifier 校验 Razorpay 回调签名
type Verifier interface {
	// Verify 对原始请求体做 HMAC-SHA256 并与回调头里的签名比对
	// 任何形式的不匹配（包括空签名、非法 hex）都返回 false，不抛错
	Verify(rawPayload []byte, providedSignature string) bool
}

type hmacVerifier struct {
	secret []byte
}

// NewHMACVerifier 创建基于共享密钥的验签器
func NewHMACVerifier(secret string) Verifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(rawPayload []byte, providedSignature string) bool {
	if len(v.secret) == 0 || providedSignature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(rawPayload)
	expected := hex.EncodeToString(mac.Sum(nil))

	// 恒定时间比较，防止通过耗时差异猜测签名
	return subtle.ConstantTimeCompare([]byte(expected), []byte(providedSignature)) == 1
}
