// This file contains chunk decryption. The wire format encrypts event
// and data chunks with AES-256 in ECB mode with PKCS7 padding
// (original_source/src/uchunk.rs's `Aes = Ecb<Aes256, Pkcs7>`). ECB mode
// has no block-chaining state, so stdlib's crypto/aes block cipher is
// applied one block at a time directly; this is the one component in
// the module built on the standard library rather than a third-party
// package — see DESIGN.md for why (no ECB cipher.BlockMode exists in
// crypto/cipher, and nothing in the example pack's dependency set
// provides one either).
package container

import (
	"crypto/aes"
	"fmt"
)

// DecryptECB decrypts data, AES-ECB with PKCS7 padding, into a new
// buffer and returns the unpadded plaintext; data is left unchanged.
func DecryptECB(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("container: aes key: %w", err)
	}
	bs := block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, fmt.Errorf("container: ciphertext length %d not a multiple of block size %d", len(data), bs)
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}

	pad := int(out[len(out)-1])
	if pad <= 0 || pad > bs || pad > len(out) {
		return nil, fmt.Errorf("container: invalid pkcs7 padding byte %d", pad)
	}
	for _, b := range out[len(out)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("container: malformed pkcs7 padding")
		}
	}
	return out[:len(out)-pad], nil
}
