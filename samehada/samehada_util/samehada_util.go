package samehada_util

import (
	"encoding/binary"
	"math/rand"
	"os"

	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/types"
)

func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// PackRIDtoUint64 puts PageId to lower 4 bytes and SlotNum to upper 4 bytes
func PackRIDtoUint64(value *page.RID) uint64 {
	packBuf := make([]byte, 8)
	binary.LittleEndian.PutUint32(packBuf[:4], uint32(value.PageId))
	binary.LittleEndian.PutUint32(packBuf[4:], value.SlotNum)
	return binary.LittleEndian.Uint64(packBuf)
}

func UnpackUint64toRID(value uint64) page.RID {
	packedBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(packedBuf, value)
	pageId := types.PageID(int32(binary.LittleEndian.Uint32(packedBuf[:4])))
	slotNum := binary.LittleEndian.Uint32(packedBuf[4:])
	return page.NewRID(pageId, slotNum)
}

// min length is 1
func GetRandomStr(maxLength int32) string {
	alphabets := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	len_ := 1
	if maxLength > 1 {
		len_ = 1 + rand.Intn(int(maxLength))
	}

	s := make([]byte, 0, len_)
	for j := 0; j < len_; j++ {
		s = append(s, alphabets[rand.Intn(len(alphabets))])
	}

	return string(s)
}
