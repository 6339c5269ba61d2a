// Package testutil provides model fixtures and file helpers for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/smithygen/internal/fileutil"
)

// WeatherModel is the smallest complete service: one HTTP operation with a
// required label member and a one-field output.
const WeatherModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.weather#Weather": {
      "type": "service",
      "version": "2024-01-01",
      "operations": [{"target": "example.weather#GetForecast"}],
      "traits": {"smithy.api#documentation": "Provides weather forecasts."}
    },
    "example.weather#GetForecast": {
      "type": "operation",
      "input": {"target": "example.weather#GetForecastInput"},
      "output": {"target": "example.weather#GetForecastOutput"},
      "traits": {
        "smithy.api#http": {"method": "GET", "uri": "/weather/{city}"},
        "smithy.api#readonly": {}
      }
    },
    "example.weather#GetForecastInput": {
      "type": "structure",
      "members": {
        "city": {
          "target": "smithy.api#String",
          "traits": {"smithy.api#required": {}, "smithy.api#httpLabel": {}}
        }
      }
    },
    "example.weather#GetForecastOutput": {
      "type": "structure",
      "members": {
        "tempF": {"target": "smithy.api#Integer"}
      }
    }
  }
}`

// CyclesModel holds a directly self-referential structure and a structure
// containing a list of itself.
const CyclesModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.cycles#Node": {
      "type": "structure",
      "members": {
        "value": {"target": "smithy.api#String"},
        "next": {"target": "example.cycles#Node"}
      }
    },
    "example.cycles#Tree": {
      "type": "structure",
      "members": {
        "name": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}},
        "children": {"target": "example.cycles#TreeList"}
      }
    },
    "example.cycles#TreeList": {
      "type": "list",
      "member": {"target": "example.cycles#Tree"}
    },
    "example.cycles#Left": {
      "type": "structure",
      "members": {
        "right": {"target": "example.cycles#Right"}
      }
    },
    "example.cycles#Right": {
      "type": "structure",
      "members": {
        "left": {"target": "example.cycles#Left"},
        "label": {"target": "smithy.api#String"}
      }
    }
  }
}`

// CatalogModel exercises every supported shape kind, resources, errors and
// HTTP bindings.
const CatalogModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.catalog#Catalog": {
      "type": "service",
      "version": "2024-06-01",
      "operations": [
        {"target": "example.catalog#CreateProduct"},
        {"target": "example.catalog#Ping"}
      ],
      "resources": [{"target": "example.catalog#ProductResource"}],
      "traits": {"smithy.api#documentation": "Manages the product catalog."}
    },
    "example.catalog#ProductResource": {
      "type": "resource",
      "identifiers": {"productId": {"target": "smithy.api#String"}},
      "read": {"target": "example.catalog#GetProduct"},
      "list": {"target": "example.catalog#ListProducts"}
    },
    "example.catalog#GetProduct": {
      "type": "operation",
      "input": {"target": "example.catalog#GetProductInput"},
      "output": {"target": "example.catalog#GetProductOutput"},
      "errors": [{"target": "example.catalog#ProductNotFound"}],
      "traits": {
        "smithy.api#http": {"method": "GET", "uri": "/products/{productId}"},
        "smithy.api#documentation": "Returns a single product."
      }
    },
    "example.catalog#ListProducts": {
      "type": "operation",
      "input": {"target": "example.catalog#ListProductsInput"},
      "output": {"target": "example.catalog#ListProductsOutput"},
      "traits": {
        "smithy.api#http": {"method": "get", "uri": "/products"}
      }
    },
    "example.catalog#CreateProduct": {
      "type": "operation",
      "input": {"target": "example.catalog#CreateProductInput"},
      "output": {"target": "example.catalog#CreateProductOutput"},
      "traits": {
        "smithy.api#http": {"method": "POST", "uri": "/products", "code": 201}
      }
    },
    "example.catalog#Ping": {
      "type": "operation"
    },
    "example.catalog#GetProductInput": {
      "type": "structure",
      "members": {
        "productId": {
          "target": "smithy.api#String",
          "traits": {"smithy.api#required": {}, "smithy.api#httpLabel": {}}
        },
        "includeRelated": {
          "target": "smithy.api#Boolean",
          "traits": {"smithy.api#httpQuery": "related"}
        }
      }
    },
    "example.catalog#GetProductOutput": {
      "type": "structure",
      "members": {
        "product": {"target": "example.catalog#Product", "traits": {"smithy.api#required": {}}}
      }
    },
    "example.catalog#ListProductsInput": {
      "type": "structure",
      "members": {
        "category": {"target": "example.catalog#Category", "traits": {"smithy.api#httpQuery": "category"}},
        "limit": {"target": "smithy.api#Integer", "traits": {"smithy.api#httpQuery": "limit"}}
      }
    },
    "example.catalog#ListProductsOutput": {
      "type": "structure",
      "members": {
        "items": {"target": "example.catalog#ProductList"}
      }
    },
    "example.catalog#CreateProductInput": {
      "type": "structure",
      "members": {
        "product": {"target": "example.catalog#Product", "traits": {"smithy.api#required": {}}}
      }
    },
    "example.catalog#CreateProductOutput": {
      "type": "structure",
      "members": {
        "id": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}}
      }
    },
    "example.catalog#ProductNotFound": {
      "type": "structure",
      "members": {
        "message": {"target": "smithy.api#String"}
      },
      "traits": {"smithy.api#error": "client", "smithy.api#httpError": 404}
    },
    "example.catalog#Product": {
      "type": "structure",
      "members": {
        "id": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}},
        "name": {
          "target": "example.catalog#ProductName",
          "traits": {"smithy.api#required": {}, "smithy.api#documentation": "Display name."}
        },
        "price": {"target": "example.catalog#Price"},
        "category": {"target": "example.catalog#Category"},
        "priority": {"target": "example.catalog#Priority"},
        "tags": {"target": "example.catalog#TagList"},
        "attributes": {"target": "example.catalog#Attributes"},
        "created": {"target": "smithy.api#Timestamp"},
        "dimensions": {"target": "example.catalog#Dimensions"},
        "related": {"target": "example.catalog#ProductList"}
      },
      "traits": {"smithy.api#documentation": "A product for sale."}
    },
    "example.catalog#Dimensions": {
      "type": "structure",
      "members": {
        "width": {"target": "smithy.api#Double", "traits": {"smithy.api#required": {}}},
        "height": {"target": "smithy.api#Float"}
      }
    },
    "example.catalog#ProductList": {
      "type": "list",
      "member": {"target": "example.catalog#Product"}
    },
    "example.catalog#TagList": {
      "type": "list",
      "member": {"target": "smithy.api#String"}
    },
    "example.catalog#Attributes": {
      "type": "map",
      "key": {"target": "smithy.api#String"},
      "value": {"target": "smithy.api#String"}
    },
    "example.catalog#ProductName": {
      "type": "string",
      "traits": {"smithy.api#pattern": "^[A-Za-z ]+$"}
    },
    "example.catalog#Price": {
      "type": "double"
    },
    "example.catalog#Category": {
      "type": "enum",
      "members": {
        "BOOKS": {"target": "smithy.api#Unit", "traits": {"smithy.api#enumValue": "books"}},
        "MUSIC": {"target": "smithy.api#Unit", "traits": {"smithy.api#enumValue": "music"}},
        "GAMES": {"target": "smithy.api#Unit"}
      }
    },
    "example.catalog#Priority": {
      "type": "intEnum",
      "members": {
        "LOW": {"target": "smithy.api#Unit", "traits": {"smithy.api#enumValue": 1}},
        "HIGH": {"target": "smithy.api#Unit", "traits": {"smithy.api#enumValue": 10}}
      }
    }
  }
}`

// OrdersModel references CatalogModel's Product from another namespace.
const OrdersModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.orders#Orders": {
      "type": "service",
      "version": "1.0",
      "operations": [{"target": "example.orders#PlaceOrder"}]
    },
    "example.orders#PlaceOrder": {
      "type": "operation",
      "input": {"target": "example.orders#PlaceOrderInput"},
      "output": {"target": "example.orders#PlaceOrderOutput"}
    },
    "example.orders#PlaceOrderInput": {
      "type": "structure",
      "members": {
        "product": {"target": "example.catalog#Product", "traits": {"smithy.api#required": {}}},
        "quantity": {"target": "smithy.api#Integer", "traits": {"smithy.api#required": {}}}
      }
    },
    "example.orders#PlaceOrderOutput": {
      "type": "structure",
      "members": {
        "orderId": {"target": "smithy.api#String"}
      }
    }
  }
}`

// OrdersSource is the IDL text OrdersModel was built from.
const OrdersSource = `$version: "2"
namespace example.orders

use example.catalog#Product

service Orders {
    version: "1.0"
    operations: [PlaceOrder]
}
`

// UnionModel contains a union, which the loader does not support.
const UnionModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.shapes#Input": {
      "type": "structure",
      "members": {"name": {"target": "smithy.api#String"}}
    },
    "example.shapes#Choice": {
      "type": "union",
      "members": {"a": {"target": "smithy.api#String"}}
    }
  }
}`

// DanglingModel has a member targeting an undefined shape.
const DanglingModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.broken#Input": {
      "type": "structure",
      "members": {
        "name": {"target": "smithy.api#String"},
        "missing": {"target": "example.broken#Missing"}
      }
    }
  }
}`

// TwoServicesModel declares two services in one namespace.
const TwoServicesModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.multi#Alpha": {"type": "service", "version": "1", "operations": [{"target": "example.multi#Echo"}]},
    "example.multi#Beta": {"type": "service", "version": "1", "operations": [{"target": "example.multi#Echo"}]},
    "example.multi#Echo": {
      "type": "operation",
      "input": {"target": "example.multi#EchoMessage"},
      "output": {"target": "example.multi#EchoMessage"}
    },
    "example.multi#EchoMessage": {
      "type": "structure",
      "members": {"text": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}}}
    }
  }
}`

// ReservedNamesModel uses member and shape names that match methods and
// package-level declarations every generated package carries.
const ReservedNamesModel = `{
  "smithy": "2.0",
  "shapes": {
    "example.edges#Edges": {
      "type": "service",
      "version": "1",
      "operations": [{"target": "example.edges#PutItem"}]
    },
    "example.edges#PutItem": {
      "type": "operation",
      "input": {"target": "example.edges#PutItemInput"},
      "output": {"target": "example.edges#PutItemOutput"},
      "errors": [{"target": "example.edges#Failure"}],
      "traits": {"smithy.api#http": {"method": "PUT", "uri": "/items/{id}"}}
    },
    "example.edges#PutItemInput": {
      "type": "structure",
      "members": {
        "id": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}, "smithy.api#httpLabel": {}}},
        "validate": {"target": "smithy.api#String", "traits": {"smithy.api#required": {}}},
        "validateField": {"target": "smithy.api#Integer"},
        "unit": {"target": "example.edges#Unit"}
      }
    },
    "example.edges#PutItemOutput": {
      "type": "structure",
      "members": {
        "requiredFieldError": {"target": "example.edges#RequiredFieldError", "traits": {"smithy.api#required": {}}}
      }
    },
    "example.edges#Unit": {
      "type": "structure",
      "members": {
        "validate": {"target": "smithy.api#Boolean"}
      }
    },
    "example.edges#RequiredFieldError": {
      "type": "structure",
      "members": {
        "field": {"target": "smithy.api#String"}
      }
    },
    "example.edges#Failure": {
      "type": "structure",
      "members": {
        "error": {"target": "smithy.api#String"},
        "errorFault": {"target": "smithy.api#String"},
        "httpStatus": {"target": "smithy.api#Integer"},
        "message": {"target": "smithy.api#String"}
      },
      "traits": {"smithy.api#error": "client", "smithy.api#httpError": 409}
    }
  }
}`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), fileutil.ReadableByAll); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
