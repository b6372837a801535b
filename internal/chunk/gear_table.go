package chunk

// gearTable is the 256-entry byte-indexed table used by the rolling gear
// hash in Chunker. Values are derived once, offline, from a fixed-seed
// splitmix64 stream rather than hand-picked, so the table has no
// correlation with byte values while remaining fully reproducible.
var gearTable = [256]uint64{
	0x05031C2E483E47A2, 0x484FBFEF529A3709, 0xF8183889BE5CF22D, 0x1633703071B27B22,
	0x7ED9002D6AE7E84C, 0x2EDE7DF7A2037BDB, 0x1784282C26AB009A, 0x83B9EACCE7A9274F,
	0x1AE79ED0E7C2E6D1, 0xAF9B2B0CFA0C14FF, 0xE3FB7DAD0DD94573, 0x6B86DB13498D0152,
	0x1B3F6F4AAF239023, 0x7D52BFFF92EFED67, 0x921360615057D727, 0x8A41765601F94852,
	0xDFB7302A4E46EE5E, 0x2177BFF1E596FABD, 0x1C79351ACA10440F, 0x350A13C613F334F7,
	0x33EEB713FEFAD900, 0x1C2A950F6BB45035, 0x39B124AD8561161D, 0xB137C531F8E0E4AF,
	0x8C961604219E37AC, 0x59F9110DFD45ACFE, 0xF5E9DD9F521EDAEB, 0x46F0D3ADA11A8E28,
	0xDC56DDF1A0BFF5FD, 0x5B1E16078E2EF222, 0x73E36A837F4E372E, 0x4F1D60B36664C6DE,
	0x54B86BDE794A4FF6, 0xC6040BE583FA3C4C, 0x3B68E90D88A3B793, 0xECE9C67526CF10CF,
	0x0CBDEA6EE3A833BE, 0x6C0322156E9D996A, 0xD542F99378DD3508, 0x02E117914FD32447,
	0xF5BFA88DD9E8D17C, 0x0803964896AB7888, 0x617DE059434BA8DF, 0xD9DCC7CE3BB2AB2C,
	0x6429E3BCF3B47E44, 0xC85868A0B4E643E4, 0x514FF28344881E43, 0xCF55FE95D318C90B,
	0xC956CF51153CF8B2, 0x5480626B696A53C5, 0xC52D6D0CBED7E4A5, 0xA30F5D4803AB1077,
	0x5615FFA8A545BF79, 0x098BA6059742A23E, 0xBC8E0767208E7545, 0x328F57CE862E44EE,
	0x1249C0E3A94145DF, 0xDCC39C10DDA17BAF, 0xF915284E13E22B79, 0x320C8CCC2EEA5BAE,
	0xF78DFD6ED6B4050D, 0x8C9487874D9D8B28, 0x59CD0FF5A9A9A79F, 0x1CEE52EF17279FCD,
	0xA6A35EE9B6026DD1, 0x0EDF20B72ED820CC, 0xF6669724B38F5378, 0xC5B09D4EFBE5EB7F,
	0xA763E3F22779FEBE, 0x74146DEEDC90C529, 0xF3591DE1C68942DF, 0x546F08002E9C2ED8,
	0x78BFB2FBB16B0F94, 0x6FAF340607E019FD, 0xB4635DDF4C29771E, 0x54E935CA07ABD7E3,
	0xDA587FC2F53B6C89, 0x9BA39BAFB405F58E, 0x306A9DD2A5BB61EF, 0x87E733A4198BE445,
	0x562B9DDCA6C8D56E, 0xBD576E141818C285, 0x2B6BB39D7BE7A1BB, 0x08E93A8A6E661210,
	0x76F578EFCF256939, 0x9134A14C5357C1F8, 0x1C80AEE3DD1DD835, 0x1F8D6D6244791B30,
	0x9B82E66AE04E366B, 0xD3C452FD7FA03469, 0x090CF547D5F4260D, 0xE6244D6F25F769EB,
	0x8B5E071C66AA0AB4, 0x44C2CAE38513120F, 0x114DE8FA69EC141A, 0x81E4993B3179F076,
	0x67239D78D058276A, 0xCB419A8EC6F9C945, 0x924125FFA7376ECA, 0xBA865F2C243E077F,
	0x34B391126C7E9FA2, 0xFBDE7509ADCDA618, 0x4C8DC135B83C3421, 0x3E9EFA75CAAD70C5,
	0x3E4A7B4C9F447450, 0xF63DB5376449F1A9, 0x82624FD63F3F8181, 0x3B525F05D154C67C,
	0x134AF3C2C740F635, 0x5659E883CAF3E1A9, 0x87A66AB59360EF95, 0xA2F4FC41A7A08D77,
	0x0505B5A43C574B64, 0xC6F58FBF547A3143, 0x2F9DAFC883BB5BC8, 0xD0AF9B9E12FBE3A7,
	0x72F7355C3C6A0DD7, 0x48C3691247420F50, 0x876D1D0CAB30D0B5, 0x5DACED7FE16964CA,
	0xF6BAF957B26DDC74, 0xF5629A83D9A54832, 0xE5ABCD395164247E, 0xE5E2C10D7ABB7141,
	0x021D8479940A76CE, 0xC2AB3A8CEFDEB70A, 0xC661A94E36F643B2, 0xB488DFA8B71513E8,
	0xE83DFD8FA38A6B87, 0xB8C0B64D920A01B6, 0x70EFE65422CD406F, 0xC98A64BC5BD3E899,
	0xB17E52C12DB1C3C0, 0x4512ECF52A71D349, 0xF214C0FE31ACCA3A, 0x317CA1BF89138844,
	0x3BC5B109995312E9, 0x7DF03FC606121723, 0x7A91E314D7540C99, 0x825D8216CC7E0D03,
	0xDA6C3F7BFC09AB63, 0xE718D33C9F0857C6, 0x5C5A477CF064DC0F, 0xB3D6E7281EDB2FED,
	0x57DE63B1EF157B0C, 0x62F4D8F5C4AF6519, 0x449A0DE7D84976B0, 0x56C380804AD58903,
	0xCA42AFDBF9F71E59, 0xCBC4074EBB7D4684, 0x1DC47198AE8EC996, 0x28120C5B002A27A1,
	0xBE8C7B8BE81612C3, 0x14752582369EF6D3, 0x8E612EDC8A1F8F5A, 0x8FFAB070AA26F386,
	0x16D40C93E3D59886, 0x3F1D7DD6E0741B90, 0x5CAF97AD12C0A288, 0x2C22AF1003C7AD8A,
	0x39561443ACDBBFEE, 0x97984E005A2269CC, 0x48A46EFE2461E7ED, 0x2AB59EA779EEC133,
	0x1A3A6179559F2D17, 0x719093C95AE91F5E, 0xBB931A15E7690DA9, 0x4E063DC579524AD7,
	0xE4386E954BAD393E, 0x911184B137795C6E, 0xFC0DED18325CCC84, 0x80949661460231F3,
	0xF7F215A42AF643DB, 0x6B258F330216DC58, 0x3E3C7F1BCFC7BAEB, 0xEF8590F04563745C,
	0x13B294F8A923A418, 0x5DDBB68403AF0DE7, 0x1675975A1DCE67FB, 0x17F617F561DC601F,
	0x11C034A9975054EE, 0x9314BC44A9E86FFE, 0x44BA4B9A93A83D68, 0x253EDA7A9283D475,
	0x889FFCE29CF391F3, 0x8298C3887A3488B9, 0x40055494C73E670F, 0x29EA222417B4C585,
	0x0C398060EE421BE9, 0xF348F4612F0B877B, 0x0F2E1C99FE041834, 0x742D6CE8CC81CA02,
	0x61DCA7D16B1912F3, 0x6DC1943C297519C1, 0x2E484EB13947C5F9, 0x049494FF0BFF7635,
	0x4B51A68F8A6EE99E, 0x2811C7931AFCADED, 0xA0B329C0E40DFAD3, 0xB0EC71D96C0A1C91,
	0x5836C85EAF9A1D03, 0x1C15AE076E6DACD9, 0x401E0B73F7CBA2D6, 0xDF47DF855D2EE82B,
	0xC636D80C39289B52, 0x72ABC7738AA9DA1A, 0xFE5B8A87F7BD7E59, 0xF1BB205ACB59A2B5,
	0x634853F7CCE97AA5, 0xF455A887C589FE87, 0x9AEE91F57EAF5DA1, 0xCB02175B9F08A6F6,
	0xB69F671643317CEB, 0xFA317B9FA97222CC, 0x7DB840FEB2CDC796, 0xF0D806AB8EBE1BD7,
	0x48D3B9152B8AB7A8, 0xD6BD69A49630D3E0, 0x06C7AA4B58E13EBA, 0x35F37DFB93F38EB5,
	0xF41C9348DA976765, 0xB526302AF687B8C1, 0x11A44A5784500905, 0xD46CB2B335319EA6,
	0xF008F410CFCFD78F, 0x7FFE75ED4056921F, 0x1826A4CF9F8BF694, 0x621939E0B9CA49AF,
	0x943B35121AA68BD5, 0x852ED37DD3EE7B48, 0xBE3D0F79441629F4, 0xE3C675C7DCB27DF7,
	0x661E1CBBC77CA341, 0x017C7E6B7A5E5091, 0xD3336BAE771A3AFD, 0xB1A4051BB2450E52,
	0x9644F4B47FAD7FE0, 0x5E45D53971B208FA, 0x4B67D7CAB92D7379, 0xDE29D80B8B0B04AE,
	0x765EBBE3EDC04B6D, 0xDCBA134198C29BEE, 0xFC32A1B2DFB0798B, 0x2FA7DA19E1CA03D3,
	0x54C1B24B8CB1607B, 0x4128BDACB9AB1AEF, 0x3250C66708DD6475, 0x63BF0ECFDEE48484,
	0x509DC1DC937CD1D8, 0x61773AA8009D8A1D, 0xC7F9A8EA137B58D9, 0x2A2510E8199737FE,
	0xBCCD4A2AF3BC6F14, 0x8A2DCF6CFE18C24C, 0x75E1F908CC10DADC, 0x9C99CBDB48EBE497,
}
