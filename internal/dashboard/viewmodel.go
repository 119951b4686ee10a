package dashboard

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/salesdash/sales-api-golang/internal/sales"
)

// API define lo que el view model necesita del cliente.
type API interface {
	ListSales(ctx context.Context) ([]sales.Sale, error)
	CreateSale(ctx context.Context, input sales.CreateSaleInput, idempotencyKey string) (sales.Sale, error)
}

// ViewModel mantiene el estado de la vista de ventas: la lista traída del
// backend, el formulario, el texto de búsqueda y la visibilidad de la tabla.
// El filtrado es una proyección pura sobre la lista local, nunca un request.
type ViewModel struct {
	api API

	mu        sync.Mutex
	records   []sales.Sale
	form      sales.CreateSaleInput
	query     string
	showTable bool
	lastError string
}

// NewViewModel crea un view model con la tabla visible y sin datos.
func NewViewModel(api API) *ViewModel {
	return &ViewModel{
		api:       api,
		records:   make([]sales.Sale, 0),
		showTable: true,
	}
}

// Load trae la lista completa una vez y la guarda tal cual llega
// (el orden fecha-descendente ya lo garantiza el backend).
func (vm *ViewModel) Load(ctx context.Context) error {
	results, err := vm.api.ListSales(ctx)
	if err != nil {
		vm.mu.Lock()
		vm.lastError = err.Error()
		vm.mu.Unlock()
		return err
	}

	vm.mu.Lock()
	vm.records = results
	vm.lastError = ""
	vm.mu.Unlock()
	return nil
}

// SetForm reemplaza el estado del formulario.
func (vm *ViewModel) SetForm(form sales.CreateSaleInput) {
	vm.mu.Lock()
	vm.form = form
	vm.mu.Unlock()
}

// Form devuelve el estado actual del formulario.
func (vm *ViewModel) Form() sales.CreateSaleInput {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.form
}

// Submit valida el formulario y lo manda al backend.
// La validación local es la misma regla que aplica el service (predicado
// compartido) pero acá es solo un corte temprano de UX: el backend decide.
// En éxito mergea el registro devuelto re-ordenando por fecha descendente
// (así la vista nunca rompe el invariante de orden) y limpia el formulario.
// En falla deja el formulario como estaba y guarda el error para mostrarlo.
func (vm *ViewModel) Submit(ctx context.Context) (sales.Sale, error) {
	vm.mu.Lock()
	form := vm.form
	vm.mu.Unlock()

	form.Customer = strings.TrimSpace(form.Customer)
	form.Product = strings.TrimSpace(form.Product)

	if err := form.Validate(); err != nil {
		vm.mu.Lock()
		vm.lastError = "Please fill all fields!"
		vm.mu.Unlock()
		return sales.Sale{}, err
	}

	created, err := vm.api.CreateSale(ctx, form, "")
	if err != nil {
		vm.mu.Lock()
		vm.lastError = err.Error()
		vm.mu.Unlock()
		return sales.Sale{}, err
	}

	vm.mu.Lock()
	vm.records = append([]sales.Sale{created}, vm.records...)
	sort.SliceStable(vm.records, func(i, j int) bool {
		return vm.records[i].Date.After(vm.records[j].Date)
	})
	vm.form = sales.CreateSaleInput{}
	vm.lastError = ""
	vm.mu.Unlock()

	return created, nil
}

// SetQuery actualiza el texto de búsqueda.
func (vm *ViewModel) SetQuery(query string) {
	vm.mu.Lock()
	vm.query = query
	vm.mu.Unlock()
}

// Filtered devuelve la vista filtrada: substring case-insensitive contra
// customer O product. Un campo ausente cuenta como "" (nunca rompe).
// Query vacía devuelve la lista completa.
func (vm *ViewModel) Filtered() []sales.Sale {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	query := strings.ToLower(vm.query)

	results := make([]sales.Sale, 0, len(vm.records))
	for _, sale := range vm.records {
		customer := strings.ToLower(sale.Customer)
		product := strings.ToLower(sale.Product)
		if strings.Contains(customer, query) || strings.Contains(product, query) {
			results = append(results, sale)
		}
	}
	return results
}

// ToggleTable invierte la visibilidad de la tabla sin tocar los datos.
func (vm *ViewModel) ToggleTable() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.showTable = !vm.showTable
	return vm.showTable
}

// TableVisible informa si la tabla se muestra.
func (vm *ViewModel) TableVisible() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.showTable
}

// LastError devuelve el último error visible para el usuario ("" si no hay).
func (vm *ViewModel) LastError() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastError
}
