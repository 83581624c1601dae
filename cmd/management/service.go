// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const managementServiceName = "scanner.management.v1.Management"

// ManagementServer maintains the seed presets of tenants. Requests carry the tenant ID.
type ManagementServer interface {
	InitializeTenant(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	CleanupTenant(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

var managementServiceDesc = grpc.ServiceDesc{
	ServiceName: managementServiceName,
	HandlerType: (*ManagementServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "InitializeTenant",
			Handler:    tenantHandler("InitializeTenant", ManagementServer.InitializeTenant),
		},
		{
			MethodName: "CleanupTenant",
			Handler:    tenantHandler("CleanupTenant", ManagementServer.CleanupTenant),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "management.proto",
}

func registerManagementServer(s grpc.ServiceRegistrar, srv ManagementServer) {
	s.RegisterService(&managementServiceDesc, srv)
}

type tenantMethod func(ManagementServer, context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)

func tenantHandler(method string, call tenantMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ManagementServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + managementServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ManagementServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// managementClient calls the management service over an existing connection.
type managementClient struct {
	cc grpc.ClientConnInterface
}

func (c *managementClient) InitializeTenant(ctx context.Context, tenant string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+managementServiceName+"/InitializeTenant", wrapperspb.String(tenant), new(emptypb.Empty), opts...)
}

func (c *managementClient) CleanupTenant(ctx context.Context, tenant string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+managementServiceName+"/CleanupTenant", wrapperspb.String(tenant), new(emptypb.Empty), opts...)
}
