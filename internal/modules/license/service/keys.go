package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"sync"

	"fx_dashboard/pkg/logger"
)

const keyBits = 2048

// Keys — ключи подписи лицензий. Одни на процесс: грузим на старте,
// дальше никто их не трогает и не перегенерирует.
type Keys struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

var (
	keysOnce sync.Once
	keysInst *Keys
	keysErr  error
)

// NewKeys: PEM из конфига (base64) либо свежая пара.
// Повторные вызовы возвращают тот же экземпляр.
func NewKeys(privateB64, publicB64 string) (*Keys, error) {
	keysOnce.Do(func() {
		keysInst, keysErr = loadOrGenerate(privateB64, publicB64)
	})
	return keysInst, keysErr
}

func loadOrGenerate(privateB64, publicB64 string) (*Keys, error) {
	if privateB64 != "" && publicB64 != "" {
		k, err := parseKeys(privateB64, publicB64)
		if err == nil {
			return k, nil
		}
		logger.Error("license keys from config unusable, generating fresh pair: %v", err)
	}

	priv, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("generate license keys: %w", err)
	}
	return &Keys{private: priv, public: &priv.PublicKey}, nil
}

func parseKeys(privateB64, publicB64 string) (*Keys, error) {
	privPEM, err := base64.StdEncoding.DecodeString(privateB64)
	if err != nil {
		return nil, fmt.Errorf("decode private pem: %w", err)
	}
	pubPEM, err := base64.StdEncoding.DecodeString(publicB64)
	if err != nil {
		return nil, fmt.Errorf("decode public pem: %w", err)
	}

	privBlock, _ := pem.Decode(privPEM)
	if privBlock == nil {
		return nil, fmt.Errorf("private key: no pem block")
	}
	priv, err := x509.ParsePKCS1PrivateKey(privBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBlock, _ := pem.Decode(pubPEM)
	if pubBlock == nil {
		return nil, fmt.Errorf("public key: no pem block")
	}
	pub, err := x509.ParsePKCS1PublicKey(pubBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return &Keys{private: priv, public: pub}, nil
}
