package catalog

import (
	"errors"
	"testing"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

func TestResolveAppliesDefaults(t *testing.T) {
	attr := metadata.NewAttribute("Microsoft.Azure.WebJobs.TimerTriggerAttribute", metadata.StringValue("0 */5 * * * *"))

	inst, err := Resolve(attr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := inst.GetString("ScheduleExpression"); got != "0 */5 * * * *" {
		t.Fatalf("schedule mismatch: %q", got)
	}
	useMonitor, _ := inst.Get("UseMonitor")
	if b, _ := useMonitor.Bool(); !b {
		t.Fatalf("expected UseMonitor default true")
	}
	scheduleType, _ := inst.Get("ScheduleType")
	if !scheduleType.IsNull() {
		t.Fatalf("expected ScheduleType to be null, got %v", scheduleType.Data)
	}
}

func TestResolveConstructorOverloads(t *testing.T) {
	tests := []struct {
		name string
		attr *metadata.Attribute
		want map[string]any
	}{
		{
			name: "service bus trigger with access",
			attr: metadata.NewAttribute("ServiceBusTriggerAttribute",
				metadata.StringValue("queue1"),
				AccessRights.Value("Listen"),
			),
			want: map[string]any{"QueueName": "queue1", "Access": int64(2)},
		},
		{
			name: "service bus trigger topic subscription",
			attr: metadata.NewAttribute("ServiceBusTriggerAttribute",
				metadata.StringValue("topic"),
				metadata.StringValue("sub"),
			),
			want: map[string]any{"TopicName": "topic", "SubscriptionName": "sub", "Access": int64(0)},
		},
		{
			name: "blob with file access",
			attr: metadata.NewAttribute("BlobAttribute",
				metadata.StringValue("c/{name}"),
				FileAccess.Value("Write"),
			),
			want: map[string]any{"BlobPath": "c/{name}", "Access": int64(2)},
		},
		{
			name: "http trigger with level and methods",
			attr: metadata.NewAttribute("HttpTriggerAttribute",
				AuthorizationLevel.Value("Anonymous"),
				metadata.ArrayValue(metadata.StringValue("get")),
			),
			want: map[string]any{"AuthLevel": int64(0)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inst, err := Resolve(tc.attr)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			for key, want := range tc.want {
				got, ok := inst.Get(key)
				if !ok {
					t.Fatalf("missing property %s", key)
				}
				if got.Data != want {
					t.Fatalf("%s = %v, want %v", key, got.Data, want)
				}
			}
		})
	}
}

func TestResolveNamedArgumentsOverrideConstructor(t *testing.T) {
	attr := metadata.NewAttribute("QueueTriggerAttribute", metadata.StringValue("q")).
		WithProperty("Connection", metadata.StringValue("Storage"))

	inst, err := Resolve(attr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := inst.GetString("Connection"); got != "Storage" {
		t.Fatalf("connection mismatch: %q", got)
	}
	if len(inst.Values) != 2 {
		t.Fatalf("expected catalogued properties only, got %d", len(inst.Values))
	}
}

func TestResolveRejectsUnknownConstructor(t *testing.T) {
	attr := metadata.NewAttribute("QueueTriggerAttribute", metadata.IntValue(3))

	_, err := Resolve(attr)
	var ctorErr *UnsupportedConstructorError
	if !errors.As(err, &ctorErr) {
		t.Fatalf("expected UnsupportedConstructorError, got %v", err)
	}
	if ctorErr.Params[0] != "System.Int32" {
		t.Fatalf("unexpected params: %v", ctorErr.Params)
	}
}

func TestResolveCustomAttributeUsesConstructorParamNames(t *testing.T) {
	attr := metadata.NewAttribute("Contoso.Bindings.SlackAttribute", metadata.StringValue("#general"))
	attr.CtorParamNames = []string{"channel"}
	attr.WithProperty("WebHookUrl", metadata.StringValue("SlackHook"))

	inst, err := Resolve(attr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if inst.Spec != nil {
		t.Fatalf("expected custom attribute to have no spec")
	}
	if got := inst.GetString("Channel"); got != "#general" {
		t.Fatalf("channel mismatch: %q", got)
	}
	if got := inst.GetString("WebHookUrl"); got != "SlackHook" {
		t.Fatalf("webhook mismatch: %q", got)
	}
}

func TestLookupEnumBySimpleOrFullName(t *testing.T) {
	for _, name := range []string{"AccessRights", "Microsoft.ServiceBus.Messaging.AccessRights"} {
		e, ok := LookupEnum(name)
		if !ok || e != AccessRights {
			t.Fatalf("LookupEnum(%q) failed", name)
		}
	}
	if name, _ := AuthorizationLevel.MemberName(4); name != "Admin" {
		t.Fatalf("unexpected member name %q", name)
	}
}
