// Package proto holds the generated protobuf and gRPC bindings for the
// TaskService API defined in proto/gophtasks.proto.
package proto

//go:generate protoc -I ../.. --go_out=../.. --go_opt=module=github.com/dmitrijs2005/gophtasks --go-grpc_out=../.. --go-grpc_opt=module=github.com/dmitrijs2005/gophtasks proto/gophtasks.proto
