package services

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapCreator adalah bagian dari snap.Client yang kita pakai, supaya bisa diganti di test.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient membuat client Midtrans Snap. env: "production" atau selain itu sandbox.
func NewSnapClient(serverKey, env string) *snap.Client {
	environment := midtrans.Sandbox
	if env == "production" {
		environment = midtrans.Production
	}
	var s snap.Client
	s.New(serverKey, environment)
	return &s
}
