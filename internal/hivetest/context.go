package hivetest

import "context"

func withAccount(ctx context.Context, acct *account) context.Context {
	return context.WithValue(ctx, ctxKey{}, acct)
}

func accountFrom(ctx context.Context) *account {
	acct, _ := ctx.Value(ctxKey{}).(*account)
	return acct
}
