package http

import (
	"context"

	"agrodash/pkg/contracts/domain"
)

func withCriteria(ctx context.Context, c domain.FilterCriteria) context.Context {
	return context.WithValue(ctx, criteriaKey{}, c)
}

func criteriaFrom(ctx context.Context) domain.FilterCriteria {
	c, _ := ctx.Value(criteriaKey{}).(domain.FilterCriteria)
	return c
}
