package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Storage is the local persistence behind the storefront: the cart, the
// saved delivery address, and the order history cache. Implementations
// are keyed stores scoped to one installation, the way browser local
// storage is scoped to one browser.
type Storage interface {
	SaveCart(items []CartItem) error
	LoadCart() ([]CartItem, error)
	ClearCart() error

	SaveAddress(addr Address) error
	LoadAddress() (*Address, error)

	AppendOrder(o PlacedOrder) error
	LoadOrders() ([]PlacedOrder, error)
}

// fileStorage persists each key as a JSON file in a directory.
type fileStorage struct {
	dir string
}

func NewFileStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create directory %s: %w", dir, err)
	}
	return &fileStorage{dir: dir}, nil
}

func (s *fileStorage) SaveCart(items []CartItem) error {
	return s.write("cart.json", items)
}

func (s *fileStorage) LoadCart() ([]CartItem, error) {
	var items []CartItem
	if err := s.read("cart.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *fileStorage) ClearCart() error {
	err := os.Remove(filepath.Join(s.dir, "cart.json"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: failed to remove cart: %w", err)
	}
	return nil
}

func (s *fileStorage) SaveAddress(addr Address) error {
	return s.write("address.json", addr)
}

func (s *fileStorage) LoadAddress() (*Address, error) {
	var addr Address
	if err := s.read("address.json", &addr); err != nil {
		return nil, err
	}
	if addr == (Address{}) {
		return nil, nil
	}
	return &addr, nil
}

func (s *fileStorage) AppendOrder(o PlacedOrder) error {
	orders, err := s.LoadOrders()
	if err != nil {
		return err
	}
	orders = append(orders, o)
	return s.write("orders.json", orders)
}

func (s *fileStorage) LoadOrders() ([]PlacedOrder, error) {
	var orders []PlacedOrder
	if err := s.read("orders.json", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *fileStorage) write(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("storage: failed to write %s: %w", name, err)
	}
	return nil
}

func (s *fileStorage) read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: failed to decode %s: %w", name, err)
	}
	return nil
}
