package utils

import (
	"encoding/base64"
	"encoding/binary"
	"math/rand"
	"strings"
	"time"
)

const AlphaNum = "0123456789abcdefghijklmnopqrstuvwxyz"

// PasscodeAlphabet 会议密码字符集，去掉了易混淆的 0/O/1/I/l。
const PasscodeAlphabet = "23456789abcdefghijkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultPasscodeLength 会议密码长度。
const DefaultPasscodeLength = 6

// GenerateID utils func: for 12-digit random id generation
func GenerateID() string {
	idLength := 12
	stringBuilder := strings.Builder{}
	for i := 0; i < idLength; i++ {
		index := rand.Intn(len(AlphaNum))
		stringBuilder.WriteRune(rune(AlphaNum[index]))
	}
	return stringBuilder.String()
}

// GeneratePasscode 生成6位会议密码。
func GeneratePasscode() string {
	codeLength := DefaultPasscodeLength
	stringBuilder := strings.Builder{}
	for i := 0; i < codeLength; i++ {
		index := rand.Intn(len(PasscodeAlphabet))
		stringBuilder.WriteRune(rune(PasscodeAlphabet[index]))
	}
	return stringBuilder.String()
}

var pid = uint32(time.Now().UnixNano() % 4294967291)

// NewReqID for generate req id
func NewReqID() string {
	var b [12]byte
	binary.LittleEndian.PutUint32(b[:], pid)
	binary.LittleEndian.PutUint64(b[4:], uint64(time.Now().UnixNano()))
	return base64.URLEncoding.EncodeToString(b[:])
}
