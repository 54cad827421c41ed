package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Customers() CustomerRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// リレーショナル実装はDBトランザクション、ファイル実装は
// メモリ上のコピーに全操作を適用してから一括で書き戻す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
