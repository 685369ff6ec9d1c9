package hasher

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/folder-organizer/pkg/logger"
)

// CalculateHash 计算文件的 xxHash 哈希值
func CalculateHash(fs afero.Fs, filePath string) (uint64, error) {
	logger.Get().Debug().Msgf("计算文件哈希: %s", filePath)

	file, err := fs.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	hash := xxhash.New()
	if _, err := io.Copy(hash, file); err != nil {
		return 0, fmt.Errorf("计算哈希失败: %w", err)
	}

	result := hash.Sum64()
	logger.Get().Trace().Msgf("文件哈希计算完成: %s -> %x", filePath, result)
	return result, nil
}

// FormatHash 将哈希值转换为十六进制字符串
func FormatHash(h uint64) string {
	return strconv.FormatUint(h, 16)
}

// HashString 计算字符串的哈希，用于生成稳定的短标识
func HashString(s string) string {
	return FormatHash(xxhash.Sum64String(s))
}
