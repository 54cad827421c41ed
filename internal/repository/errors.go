package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")

	// 一意キー重複（注文コード・電話番号など）
	ErrConflict = errors.New("conflict")

	// バックエンドに到達できない。起動時のフォールバック判定にだけ使う。
	ErrStorageUnavailable = errors.New("storage unavailable")
)
