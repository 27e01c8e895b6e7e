package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/polaroid-next/internal/app"
	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"
	"github.com/polaroid-next/internal/service"
)

const demoPassword = "Demo12345!"

type demoUser struct {
	email string
	name  string
	role  string
}

var demoUsers = []demoUser{
	{email: "packer@demo.local", name: "Demo Packer", role: constants.RolePacker},
	{email: "marketing@demo.local", name: "Demo Marketing", role: constants.RoleMarketing},
	{email: "customer@demo.local", name: "Demo Customer", role: constants.RoleCustomer},
}

var demoStates = []string{"J", "B", "W", "P", "K"}

// 订单演进路径：按下标依次推进到对应履约状态
var demoProgress = [][]string{
	{},
	{constants.OrderStatusProcessing},
	{constants.OrderStatusProcessing, constants.OrderStatusPosted},
	{constants.OrderStatusProcessing, constants.OrderStatusPosted, constants.OrderStatusOnDelivery, constants.OrderStatusDelivered},
	{constants.OrderStatusCancelled},
}

func main() {
	var orderCount int
	flag.IntVar(&orderCount, "orders", 10, "生成的演示订单数量")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := app.PrepareDatabase(cfg); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	userRepo := repository.NewUserRepository(models.DB)
	orderRepo := repository.NewOrderRepository(models.DB)
	printSizeRepo := repository.NewPrintSizeRepository(models.DB)

	authService := service.NewAuthService(cfg.JWT, cfg.Security.PasswordPolicy, userRepo)
	userService := service.NewUserService(userRepo)
	orderService := service.NewOrderService(orderRepo, printSizeRepo, userRepo, nil, cfg.Order)
	paymentService := service.NewPaymentService(orderRepo, nil, cfg.Payment)

	ctx := context.Background()
	var customer *models.User
	for _, item := range demoUsers {
		user, err := ensureDemoUser(ctx, authService, userService, userRepo, item)
		if err != nil {
			stdLog.Fatalf("创建演示用户 %s 失败: %v", item.email, err)
		}
		if item.role == constants.RoleCustomer {
			customer = user
		}
	}

	sizes, err := service.NewPrintSizeService(printSizeRepo).ListActive(ctx)
	if err != nil || len(sizes) == 0 {
		stdLog.Fatalf("没有可用尺寸，请先在 bootstrap.print_sizes 中配置: %v", err)
	}

	for i := 0; i < orderCount; i++ {
		input := service.CreateOrderInput{
			CustomerName:    fmt.Sprintf("Demo Buyer %d", i+1),
			CustomerEmail:   fmt.Sprintf("buyer%d@demo.local", i+1),
			CustomerState:   demoStates[i%len(demoStates)],
			ShippingAddress: "1 Jalan Demo",
			Items: []service.CreateOrderItem{
				{PrintSizeID: sizes[i%len(sizes)].ID, Quantity: i%3 + 1},
			},
		}
		if i%2 == 0 && customer != nil {
			input.UserID = customer.ID
		}
		order, err := orderService.CreateOrder(input)
		if err != nil {
			stdLog.Fatalf("创建演示订单失败: %v", err)
		}

		progress := demoProgress[i%len(demoProgress)]
		if len(progress) > 0 && progress[0] != constants.OrderStatusCancelled {
			if _, err := paymentService.HandleGatewayCallback(ctx, service.GatewayCallbackInput{
				Reference:  order.OrderNo,
				StatusCode: "1",
				Amount:     order.Total.String(),
				Source:     "seed",
			}); err != nil {
				stdLog.Fatalf("模拟支付回调失败: %v", err)
			}
		}
		for _, status := range progress {
			if _, err := orderService.UpdateOrderStatus(service.UpdateOrderStatusInput{
				OrderID: order.ID,
				Status:  status,
				Caller:  constants.CallerSystem,
			}); err != nil {
				stdLog.Fatalf("推进订单状态失败: %v", err)
			}
		}
	}

	logger.Infow("seed_completed", "users", len(demoUsers), "orders", orderCount, "password", demoPassword)
	fmt.Println("Seed completed!")
}

func ensureDemoUser(ctx context.Context, auth *service.AuthService, users *service.UserService, repo repository.UserRepository, item demoUser) (*models.User, error) {
	existing, err := repo.GetByEmail(item.email)
	if err != nil {
		return nil, err
	}
	user := existing
	if user == nil {
		user, _, _, err = auth.Register(service.RegisterInput{
			Email:    item.email,
			Password: demoPassword,
			Name:     item.name,
		})
		if err != nil {
			return nil, err
		}
	}
	if user.Role == item.role {
		return user, nil
	}
	return users.UpdateRole(ctx, user.ID, item.role)
}
