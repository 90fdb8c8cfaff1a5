package securesession

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/yezz123/rain-go/pkg/errs"
)

// FieldCipher performs the symmetric half of the protocol: encrypting and
// decrypting individual card fields under the session key. The exact cipher
// the service speaks is not pinned by its documentation, so implementations
// are swappable; CBCCipher is the default.
type FieldCipher interface {
	// Encrypt encrypts plaintext under key, returning a fresh IV and the
	// ciphertext.
	Encrypt(key, plaintext []byte) (iv, ciphertext []byte, err error)

	// Decrypt decrypts ciphertext under key and iv.
	Decrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// CBCCipher implements FieldCipher with AES-CBC and PKCS#7 padding.
type CBCCipher struct{}

// Make sure we conform to the interface
var _ FieldCipher = (*CBCCipher)(nil)

// Encrypt encrypts plaintext with AES-CBC under a random IV.
func (CBCCipher) Encrypt(key, plaintext []byte) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, errs.Wrap(errs.KindCrypto, "failed to create cipher", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, errs.Wrap(errs.KindCrypto, "failed to generate IV", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return iv, ciphertext, nil
}

// Decrypt decrypts AES-CBC ciphertext and strips the padding. Malformed
// input or bad padding fails; no partial plaintext is ever returned.
func (CBCCipher) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "failed to create cipher", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, errs.New(errs.KindCrypto, fmt.Sprintf("invalid IV length %d", len(iv)))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errs.New(errs.KindCrypto, fmt.Sprintf("invalid ciphertext length %d", len(ciphertext)))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errs.New(errs.KindCrypto, "empty plaintext")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errs.New(errs.KindCrypto, "invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errs.New(errs.KindCrypto, "invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
